package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"WardrobeScanner/internal/config"
	"WardrobeScanner/internal/extract"
	"WardrobeScanner/internal/infrastructure/gmail"
	"WardrobeScanner/internal/infrastructure/mailbox"
	"WardrobeScanner/internal/infrastructure/parser"
	"WardrobeScanner/internal/infrastructure/scheduler"
	"WardrobeScanner/internal/infrastructure/storage"
	"WardrobeScanner/internal/infrastructure/telegram"
	"WardrobeScanner/internal/lexicon"
	"WardrobeScanner/internal/logging"
	"WardrobeScanner/internal/markup"
	"WardrobeScanner/internal/monitoring"
	"WardrobeScanner/internal/ports"
	"WardrobeScanner/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	extractor *parser.Dispatcher
	importer  *usecase.Importer
	scheduler *usecase.Scheduler
	registry  *prometheus.Registry
	db        *sql.DB
}

// New builds the extraction core from configuration and connects the
// configured collaborators. Invalid retailer selectors and unreachable
// storage fail here, before any message is read.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(registry)

	dispatcher, err := NewExtractor(cfg, metrics, baseLogger.With("component", "dispatch"))
	if err != nil {
		return nil, err
	}

	a := &Application{
		cfg:       cfg,
		logger:    baseLogger,
		extractor: dispatcher,
		registry:  registry,
	}

	deps := usecase.ImporterDeps{
		Extractor: dispatcher,
		Metrics:   metrics,
		Policy: usecase.AccessPolicy{
			LookbackDays:          cfg.Import.LookbackDays,
			MaxLookbackDays:       cfg.Import.MaxLookbackDays,
			SkipNonTransactional:  cfg.Import.SkipNonTransactional,
			TransactionalKeywords: cfg.Import.TransactionalKeywords,
			SearchKeywords:        cfg.Import.SearchKeywords,
		},
		Pacing: cfg.Import.Pacing,
		Logger: baseLogger.With("component", "importer"),
	}

	switch cfg.Source.Kind {
	case config.SourceGmail:
		source, err := gmail.NewSource(ctx, gmail.Options{
			User:              cfg.Gmail.User,
			AccessToken:       cfg.Gmail.AccessToken,
			Endpoint:          cfg.Gmail.Endpoint,
			RequestsPerSecond: cfg.Gmail.RequestsPerSecond,
			Logger:            baseLogger.With("component", "source.gmail"),
		})
		if err != nil {
			return nil, err
		}
		deps.Source, deps.Authenticator = source, source
	default:
		source := mailbox.NewDirectorySource(cfg.Source.Directory, baseLogger.With("component", "source.eml"))
		deps.Source, deps.Authenticator = source, source
	}

	if cfg.Database.DSN != "" {
		db, err := storage.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		repo := storage.NewPostgresRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		a.db = db
		deps.Ledger, deps.Reviews, deps.Catalog = repo, repo, repo
	}

	if cfg.Notifications.Telegram.Enabled() {
		tg := cfg.Notifications.Telegram
		deps.Notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID, tg.Endpoint)
	}

	a.importer = usecase.NewImporter(deps)
	a.scheduler = usecase.NewScheduler(
		scheduler.NewIntervalScheduler(cfg.Scheduler.Interval, cfg.Scheduler.Location()),
		a.importer,
		baseLogger.With("component", "scheduler"),
	)

	return a, nil
}

// NewExtractor builds the retailer dispatcher over the configured lexicon,
// markers and weights.
func NewExtractor(cfg config.Config, recorder parser.FallbackRecorder, logger *slog.Logger) (*parser.Dispatcher, error) {
	lex := lexicon.New(lexiconData(cfg.Lexicon))
	loc := markup.NewLocator(markers(cfg.Markers))
	extractor := extract.New(lex, loc, extract.NewScorer(lex, weights(cfg.Scoring)))

	generic := parser.NewGenericParser(extractor)
	registry, err := parser.NewRegistry(cfg.Retailers, generic, lex, loc)
	if err != nil {
		return nil, fmt.Errorf("retailer parsers: %w", err)
	}
	return parser.NewDispatcher(registry, generic, recorder, logger), nil
}

// Import runs one import.
func (a *Application) Import(ctx context.Context, req usecase.ImportRequest) (usecase.ImportResult, error) {
	if req.Observer == nil {
		req.Observer = usecase.LogProgress(a.logger.With("component", "progress"))
	}
	return a.importer.Run(ctx, req)
}

// Extractor exposes the document extractor for offline use.
func (a *Application) Extractor() ports.ProductExtractor {
	return a.extractor
}

// Watch imports on the configured interval and serves /metrics until ctx ends.
func (a *Application) Watch(ctx context.Context) error {
	if a.cfg.Scheduler.Interval <= 0 {
		return errors.New("scheduler.interval must be positive for watch mode")
	}

	var server *http.Server
	serveErr := make(chan error, 1)
	if addr := a.cfg.Metrics.Address; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
		server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
		}()
		a.logger.Info("metrics listening", "address", addr)
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("watching mailbox", "interval", a.cfg.Scheduler.Interval.String())

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
		runErr = fmt.Errorf("metrics server: %w", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		a.logger.Warn("scheduler stop", "error", err)
	}
	if server != nil {
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("metrics shutdown", "error", err)
		}
	}
	return runErr
}

// Close releases the database connection.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func lexiconData(c config.LexiconConfig) lexicon.Data {
	custom := lexicon.Data{
		Keywords:       c.Keywords,
		Brands:         c.Brands,
		Blacklist:      c.Blacklist,
		ImageBlocklist: c.ImageBlocklist,
	}
	if c.Mode == config.LexiconReplace {
		return custom
	}
	return lexicon.DefaultData().Merge(custom)
}

func markers(c config.MarkersConfig) markup.Markers {
	m := markup.DefaultMarkers()
	if len(c.Forward) > 0 {
		m.Forward = c.Forward
	}
	if len(c.Start) > 0 {
		m.Start = c.Start
	}
	if len(c.End) > 0 {
		m.End = c.End
	}
	if c.Buffer > 0 {
		m.Buffer = c.Buffer
	}
	return m
}

func weights(c config.ScoringConfig) extract.Weights {
	w := extract.DefaultWeights()
	if c.Price != 0 {
		w.Price = c.Price
	}
	if c.Clothing != 0 {
		w.Clothing = c.Clothing
	}
	if c.Blacklist != 0 {
		w.Blacklist = c.Blacklist
	}
	if c.Brand != 0 {
		w.Brand = c.Brand
	}
	if c.Quantity != 0 {
		w.Quantity = c.Quantity
	}
	return w
}
