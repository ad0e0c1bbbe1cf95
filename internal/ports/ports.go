package ports

import (
	"context"
	"time"

	"WardrobeScanner/internal/domain"
)

// SearchQuery narrows a mailbox search to a time range and subject/body keywords.
type SearchQuery struct {
	Since    time.Time
	Until    time.Time
	Keywords []string
}

// MessageSource pulls order-confirmation messages from a mailbox or fixture directory.
type MessageSource interface {
	Search(ctx context.Context, query SearchQuery) ([]domain.RawDocument, error)
}

// Authenticator verifies that the source credentials are usable before searching.
type Authenticator interface {
	Authenticate(ctx context.Context) error
}

// ProductExtractor turns one document into product candidates.
type ProductExtractor interface {
	ExtractProducts(doc domain.RawDocument) ([]domain.Candidate, error)
}

// ImportLedger remembers which messages earlier batches already consumed.
type ImportLedger interface {
	AlreadyProcessed(ctx context.Context, ids []string) (map[string]bool, error)
	MarkProcessed(ctx context.Context, batchID string, ids []string) error
}

// ReviewStore stages a batch of review items until a human accepts them.
type ReviewStore interface {
	SaveBatch(ctx context.Context, batchID string, items []domain.ReviewItem) error
}

// CatalogSink receives items when the caller skips review and creates them right away.
type CatalogSink interface {
	CreateItems(ctx context.Context, batchID string, items []domain.ReviewItem) error
}

// Notifier tells the user that a batch is waiting.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// ProgressObserver receives phase and counter updates during an import.
type ProgressObserver interface {
	OnProgress(progress domain.Progress)
}

// ObserverFunc adapts a plain function to ProgressObserver.
type ObserverFunc func(progress domain.Progress)

// OnProgress calls f.
func (f ObserverFunc) OnProgress(progress domain.Progress) {
	f(progress)
}

// ImportMetrics counts what an import run did.
type ImportMetrics interface {
	DocumentProcessed()
	DocumentSkipped(reason string)
	CandidatesFound(count int)
}

// Scheduler controls when imports execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
