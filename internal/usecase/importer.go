package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"WardrobeScanner/internal/domain"
	"WardrobeScanner/internal/ports"
)

// Reasons reported to ImportMetrics.DocumentSkipped.
const (
	SkipAlreadyImported  = "already_imported"
	SkipNonTransactional = "non_transactional"
)

// ImporterDeps wires all driven adapters into the import use case. Only
// Source and Extractor are required.
type ImporterDeps struct {
	Source        ports.MessageSource
	Authenticator ports.Authenticator
	Extractor     ports.ProductExtractor
	Ledger        ports.ImportLedger
	Reviews       ports.ReviewStore
	Catalog       ports.CatalogSink
	Notifier      ports.Notifier
	Metrics       ports.ImportMetrics
	Policy        AccessPolicy
	// Pacing is an optional pause between documents.
	Pacing time.Duration
	Logger *slog.Logger
	Now    func() time.Time
	NewID  func() string
}

// ImportRequest is one caller-initiated import.
type ImportRequest struct {
	Since time.Time
	Until time.Time
	// CreateImmediately skips review and hands the batch to the catalog sink.
	CreateImmediately bool
	Observer          ports.ProgressObserver
}

// ImportResult summarises a finished import.
type ImportResult struct {
	BatchID   string
	Batch     domain.RankedBatch
	Since     time.Time
	Until     time.Time
	Processed int
	Skipped   int
	Created   bool
}

// Importer drives the authenticate, search, parse and hand-off sequence.
type Importer struct {
	source        ports.MessageSource
	authenticator ports.Authenticator
	extractor     ports.ProductExtractor
	ledger        ports.ImportLedger
	reviews       ports.ReviewStore
	catalog       ports.CatalogSink
	notifier      ports.Notifier
	metrics       ports.ImportMetrics
	policy        AccessPolicy
	pacing        time.Duration
	logger        *slog.Logger
	now           func() time.Time
	newID         func() string
}

// NewImporter constructs the import use case.
func NewImporter(deps ImporterDeps) *Importer {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	newID := deps.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Importer{
		source:        deps.Source,
		authenticator: deps.Authenticator,
		extractor:     deps.Extractor,
		ledger:        deps.Ledger,
		reviews:       deps.Reviews,
		catalog:       deps.Catalog,
		notifier:      deps.Notifier,
		metrics:       deps.Metrics,
		policy:        deps.Policy,
		pacing:        deps.Pacing,
		logger:        deps.Logger,
		now:           now,
		newID:         newID,
	}
}

// Run performs one import. Cancellation between documents discards everything
// gathered so far; nothing is staged or marked as processed in that case.
func (i *Importer) Run(ctx context.Context, req ImportRequest) (ImportResult, error) {
	if i.source == nil || i.extractor == nil {
		return ImportResult{}, domain.ErrNoSource
	}

	tracker := newPhaseTracker(req.Observer)

	if err := tracker.advance(domain.PhaseAuthenticating, domain.Progress{}); err != nil {
		return ImportResult{}, err
	}
	if i.authenticator != nil {
		if err := i.authenticator.Authenticate(ctx); err != nil {
			return ImportResult{}, fmt.Errorf("authenticate: %w", err)
		}
	}

	if err := tracker.advance(domain.PhaseSearching, domain.Progress{}); err != nil {
		return ImportResult{}, err
	}
	since, until := i.policy.Clamp(i.now(), req.Since, req.Until)
	docs, err := i.source.Search(ctx, ports.SearchQuery{
		Since:    since,
		Until:    until,
		Keywords: i.policy.SearchKeywords,
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("search messages: %w", err)
	}

	imported, err := i.alreadyImported(ctx, docs)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Since: since, Until: until}
	progress := domain.Progress{Total: len(docs)}
	if err := tracker.advance(domain.PhaseParsing, progress); err != nil {
		return ImportResult{}, err
	}

	perDocument := make([][]domain.Candidate, 0, len(docs))
	consumed := make([]string, 0, len(docs))
	for n, doc := range docs {
		if err := ctx.Err(); err != nil {
			return ImportResult{}, err
		}
		if n > 0 {
			if err := i.pause(ctx); err != nil {
				return ImportResult{}, err
			}
		}

		switch {
		case doc.ID != "" && imported[doc.ID]:
			result.Skipped++
			i.skipped(SkipAlreadyImported)
		case i.policy.SkipNonTransactional && !i.policy.IsTransactional(doc):
			result.Skipped++
			i.skipped(SkipNonTransactional)
			consumed = append(consumed, doc.ID)
		default:
			cands := i.extract(doc)
			perDocument = append(perDocument, cands)
			progress.Found += len(cands)
			result.Processed++
			consumed = append(consumed, doc.ID)
			if i.metrics != nil {
				i.metrics.DocumentProcessed()
				i.metrics.CandidatesFound(len(cands))
			}
		}

		progress.Processed = n + 1
		tracker.report(progress)
	}

	result.Batch = Aggregate(perDocument)
	result.BatchID = i.newID()

	if err := i.handOff(ctx, tracker, &result, req.CreateImmediately, progress); err != nil {
		return ImportResult{}, err
	}

	if i.ledger != nil && len(consumed) > 0 {
		if err := i.ledger.MarkProcessed(ctx, result.BatchID, nonEmpty(consumed)); err != nil {
			return ImportResult{}, fmt.Errorf("mark processed: %w", err)
		}
	}

	if err := tracker.advance(domain.PhaseComplete, progress); err != nil {
		return ImportResult{}, err
	}

	i.notify(ctx, result)
	i.info("import finished",
		"batch", result.BatchID,
		"documents", len(docs),
		"processed", result.Processed,
		"skipped", result.Skipped,
		"items", result.Batch.Len(),
	)

	return result, nil
}

func (i *Importer) alreadyImported(ctx context.Context, docs []domain.RawDocument) (map[string]bool, error) {
	if i.ledger == nil || len(docs) == 0 {
		return map[string]bool{}, nil
	}
	ids := nonEmpty(documentIDs(docs))
	if len(ids) == 0 {
		return map[string]bool{}, nil
	}
	imported, err := i.ledger.AlreadyProcessed(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load processed: %w", err)
	}
	return imported, nil
}

// extract never fails the batch: a broken document contributes nothing.
func (i *Importer) extract(doc domain.RawDocument) []domain.Candidate {
	cands, err := i.extractor.ExtractProducts(doc)
	if err != nil {
		i.warn("extraction failed", "document", doc.ID, "sender", doc.Sender, "error", err)
		return nil
	}
	i.debug("document parsed", "document", doc.ID, "sender", doc.Sender, "candidates", len(cands))
	return cands
}

func (i *Importer) handOff(ctx context.Context, tracker *phaseTracker, result *ImportResult, create bool, progress domain.Progress) error {
	if result.Batch.Len() == 0 {
		return nil
	}
	items := result.Batch.ReviewItems()

	if create && i.catalog != nil {
		if err := tracker.advance(domain.PhaseDownloading, progress); err != nil {
			return err
		}
		if err := i.catalog.CreateItems(ctx, result.BatchID, items); err != nil {
			return fmt.Errorf("create items: %w", err)
		}
		result.Created = true
		return nil
	}
	if create {
		i.warn("no catalog sink configured, staging batch for review", "batch", result.BatchID)
	}

	if i.reviews != nil {
		if err := i.reviews.SaveBatch(ctx, result.BatchID, items); err != nil {
			return fmt.Errorf("stage review batch: %w", err)
		}
	}
	return nil
}

func (i *Importer) notify(ctx context.Context, result ImportResult) {
	if i.notifier == nil || result.Batch.Len() == 0 {
		return
	}
	if err := i.notifier.PublishDigest(ctx, digestMessage(result)); err != nil {
		i.warn("notify failed", "batch", result.BatchID, "error", err)
	}
}

func (i *Importer) pause(ctx context.Context) error {
	if i.pacing <= 0 {
		return nil
	}
	timer := time.NewTimer(i.pacing)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (i *Importer) skipped(reason string) {
	if i.metrics != nil {
		i.metrics.DocumentSkipped(reason)
	}
}

func (i *Importer) debug(msg string, args ...interface{}) {
	if i.logger != nil {
		i.logger.Debug(msg, args...)
	}
}

func (i *Importer) info(msg string, args ...interface{}) {
	if i.logger != nil {
		i.logger.Info(msg, args...)
	}
}

func (i *Importer) warn(msg string, args ...interface{}) {
	if i.logger != nil {
		i.logger.Warn(msg, args...)
	}
}

func digestMessage(result ImportResult) string {
	n := result.Batch.Len()
	noun := "items"
	if n == 1 {
		noun = "item"
	}
	if result.Created {
		return fmt.Sprintf("%d %s added to your wardrobe", n, noun)
	}
	return fmt.Sprintf("%d %s ready for review", n, noun)
}

func documentIDs(docs []domain.RawDocument) []string {
	ids := make([]string, len(docs))
	for n, doc := range docs {
		ids[n] = doc.ID
	}
	return ids
}

func nonEmpty(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
