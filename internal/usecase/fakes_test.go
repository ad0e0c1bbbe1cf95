package usecase

import (
	"context"
	"errors"
	"time"

	"WardrobeScanner/internal/domain"
	"WardrobeScanner/internal/ports"
)

type fakeSource struct {
	docs    []domain.RawDocument
	err     error
	queries []ports.SearchQuery
}

func (f *fakeSource) Search(_ context.Context, q ports.SearchQuery) ([]domain.RawDocument, error) {
	f.queries = append(f.queries, q)
	return f.docs, f.err
}

type fakeAuth struct{ err error }

func (f fakeAuth) Authenticate(context.Context) error { return f.err }

// stubExtractor returns canned candidates keyed by document ID.
type stubExtractor map[string][]domain.Candidate

func (s stubExtractor) ExtractProducts(doc domain.RawDocument) ([]domain.Candidate, error) {
	if doc.ID == "broken" {
		return nil, errors.New("parser exploded")
	}
	return s[doc.ID], nil
}

type fakeLedger struct {
	processed map[string]bool
	marked    map[string][]string
}

func (f *fakeLedger) AlreadyProcessed(_ context.Context, ids []string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, id := range ids {
		if f.processed[id] {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeLedger) MarkProcessed(_ context.Context, batchID string, ids []string) error {
	if f.marked == nil {
		f.marked = map[string][]string{}
	}
	f.marked[batchID] = append(f.marked[batchID], ids...)
	return nil
}

type fakeReviews struct {
	batches map[string][]domain.ReviewItem
}

func (f *fakeReviews) SaveBatch(_ context.Context, batchID string, items []domain.ReviewItem) error {
	if f.batches == nil {
		f.batches = map[string][]domain.ReviewItem{}
	}
	f.batches[batchID] = items
	return nil
}

type fakeCatalog struct {
	created []domain.ReviewItem
}

func (f *fakeCatalog) CreateItems(_ context.Context, _ string, items []domain.ReviewItem) error {
	f.created = append(f.created, items...)
	return nil
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) PublishDigest(_ context.Context, digest string) error {
	f.messages = append(f.messages, digest)
	return f.err
}

type fakeMetrics struct {
	processed  int
	skipped    map[string]int
	candidates int
}

func (f *fakeMetrics) DocumentProcessed() { f.processed++ }

func (f *fakeMetrics) DocumentSkipped(reason string) {
	if f.skipped == nil {
		f.skipped = map[string]int{}
	}
	f.skipped[reason]++
}

func (f *fakeMetrics) CandidatesFound(count int) { f.candidates += count }

type phaseLog struct {
	updates []domain.Progress
}

func (p *phaseLog) OnProgress(progress domain.Progress) {
	p.updates = append(p.updates, progress)
}

// phases collapses consecutive updates of the same phase.
func (p *phaseLog) phases() []domain.ImportPhase {
	var out []domain.ImportPhase
	for _, u := range p.updates {
		if len(out) == 0 || out[len(out)-1] != u.Phase {
			out = append(out, u.Phase)
		}
	}
	return out
}

var fixedNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func fixedID() string { return "batch-1" }

func cand(name, url string, score int) domain.Candidate {
	return domain.Candidate{Name: name, ImageURL: url, Score: score}
}
