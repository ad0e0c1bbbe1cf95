package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"WardrobeScanner/internal/app"
	"WardrobeScanner/internal/config"
	"WardrobeScanner/internal/domain"
	"WardrobeScanner/internal/infrastructure/mailbox"
	"WardrobeScanner/internal/logging"
	"WardrobeScanner/internal/usecase"
)

const dayLayout = "2006-01-02"

type rootOptions struct {
	configPath string
	logLevel   string
}

type runOptions struct {
	since  string
	until  string
	dir    string
	create bool
	text   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "wardrobescanner",
		Short:        "Extract clothing purchases from order-confirmation emails",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to YAML config (default $WARDROBE_SCANNER_CONFIG)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(newRunCmd(opts), newExtractCmd(opts), newWatchCmd(opts))
	return root
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Import once and print the items ready for review",
		Long: `Searches the configured mailbox, extracts product candidates from every
order message in range and prints the ranked, deduplicated review items.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(root)
			if err != nil {
				return err
			}
			if opts.dir != "" {
				cfg.Source.Kind = config.SourceEML
				cfg.Source.Directory = opts.dir
			}

			req := usecase.ImportRequest{CreateImmediately: cfg.Import.CreateImmediately}
			if cmd.Flags().Changed("create") {
				req.CreateImmediately = opts.create
			}
			if req.Since, err = parseDay(opts.since); err != nil {
				return fmt.Errorf("--since: %w", err)
			}
			if req.Until, err = parseDay(opts.until); err != nil {
				return fmt.Errorf("--until: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			result, err := application.Import(ctx, req)
			if err != nil {
				return err
			}
			if opts.text {
				return printText(cmd.OutOrStdout(), result)
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&opts.since, "since", "", "start of the search range (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&opts.until, "until", "", "end of the search range (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "read .eml files from this directory instead of the configured source")
	cmd.Flags().BoolVar(&opts.create, "create", false, "create wardrobe items right away instead of staging them for review")
	cmd.Flags().BoolVar(&opts.text, "text", false, "print a plain-text table instead of JSON")
	return cmd
}

func newExtractCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "extract FILE.eml...",
		Short: "Extract and rank products from message files without importing",
		Long: `Runs the retailer parsers over the given messages and prints the ranked,
deduplicated review items. Nothing is searched, staged or recorded.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(root)
			if err != nil {
				return err
			}

			extractor, err := app.NewExtractor(cfg, nil, logger.With("component", "parser"))
			if err != nil {
				return err
			}

			docs := make([]domain.RawDocument, 0, len(args))
			for _, path := range args {
				doc, err := readMessage(path)
				if err != nil {
					return err
				}
				docs = append(docs, doc)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(usecase.ExtractBatch(extractor, docs).ReviewItems())
		},
	}
}

func readMessage(path string) (domain.RawDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.RawDocument{}, err
	}
	defer f.Close()

	doc, err := mailbox.ParseMessage(f)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func newWatchCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Import on the configured interval and expose /metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(root)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Watch(ctx)
		},
	}
}

func loadConfig(root *rootOptions) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(root.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if root.logLevel != "" {
		cfg.Logging.Level = root.logLevel
	}
	// Logs go to stderr so that stdout carries only the review items.
	return cfg, logging.NewWithWriter(os.Stderr, cfg.Logging.Level), nil
}

// parseDay accepts a calendar day (UTC midnight) or an RFC 3339 timestamp.
func parseDay(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dayLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

type runOutput struct {
	BatchID   string              `json:"batchId"`
	Since     time.Time           `json:"since"`
	Until     time.Time           `json:"until"`
	Processed int                 `json:"processed"`
	Skipped   int                 `json:"skipped"`
	Created   bool                `json:"created"`
	Items     []domain.ReviewItem `json:"items"`
}

func printJSON(w io.Writer, result usecase.ImportResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(runOutput{
		BatchID:   result.BatchID,
		Since:     result.Since,
		Until:     result.Until,
		Processed: result.Processed,
		Skipped:   result.Skipped,
		Created:   result.Created,
		Items:     result.Batch.ReviewItems(),
	})
}

func printText(w io.Writer, result usecase.ImportResult) error {
	if _, err := fmt.Fprintf(w, "batch %s: %d items from %d messages\n", result.BatchID, result.Batch.Len(), result.Processed); err != nil {
		return err
	}
	for _, c := range result.Batch.Candidates {
		if _, err := fmt.Fprintf(w, "%4d  %-40s  %-12s  %s\n", c.Score, c.Name, c.Brand, c.ImageURL); err != nil {
			return err
		}
	}
	return nil
}
