package usecase

import (
	"strings"
	"time"

	"WardrobeScanner/internal/domain"
)

const day = 24 * time.Hour

// AccessPolicy limits which messages an import may look at.
type AccessPolicy struct {
	// LookbackDays is the default range when the caller gives no start.
	LookbackDays int
	// MaxLookbackDays caps how far back any import may search; 0 disables the cap.
	MaxLookbackDays       int
	SkipNonTransactional  bool
	TransactionalKeywords []string
	SearchKeywords        []string
}

// Clamp resolves the requested range against now. A zero until means now and
// a zero since means the default lookback. The start never precedes the
// maximum lookback and never follows the end.
func (p AccessPolicy) Clamp(now, since, until time.Time) (time.Time, time.Time) {
	if until.IsZero() || until.After(now) {
		until = now
	}
	if since.IsZero() && p.LookbackDays > 0 {
		since = until.Add(-time.Duration(p.LookbackDays) * day)
	}
	if p.MaxLookbackDays > 0 {
		floor := now.Add(-time.Duration(p.MaxLookbackDays) * day)
		if since.Before(floor) {
			since = floor
		}
	}
	if since.After(until) {
		since = until
	}
	return since, until
}

// IsTransactional reports whether the subject or body mentions one of the
// transactional keywords. Without keywords every document qualifies.
func (p AccessPolicy) IsTransactional(doc domain.RawDocument) bool {
	if len(p.TransactionalKeywords) == 0 {
		return true
	}
	text := strings.ToLower(doc.Subject + "\n" + doc.Body)
	for _, kw := range p.TransactionalKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
