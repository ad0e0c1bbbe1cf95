package usecase

import (
	"testing"
	"time"

	"WardrobeScanner/internal/domain"
)

func TestAccessPolicyClamp(t *testing.T) {
	t.Parallel()

	policy := AccessPolicy{LookbackDays: 30, MaxLookbackDays: 90}
	now := fixedNow

	cases := []struct {
		name      string
		since     time.Time
		until     time.Time
		wantSince time.Time
		wantUntil time.Time
	}{
		{"defaults", time.Time{}, time.Time{}, now.AddDate(0, 0, -30), now},
		{"explicit range", now.AddDate(0, 0, -10), now.AddDate(0, 0, -5), now.AddDate(0, 0, -10), now.AddDate(0, 0, -5)},
		{"capped lookback", now.AddDate(0, 0, -200), time.Time{}, now.AddDate(0, 0, -90), now},
		{"future until", now.AddDate(0, 0, -1), now.AddDate(0, 0, 3), now.AddDate(0, 0, -1), now},
		{"inverted range", now.AddDate(0, 0, -2), now.AddDate(0, 0, -4), now.AddDate(0, 0, -4), now.AddDate(0, 0, -4)},
	}

	for _, tc := range cases {
		since, until := policy.Clamp(now, tc.since, tc.until)
		if !since.Equal(tc.wantSince) || !until.Equal(tc.wantUntil) {
			t.Fatalf("%s: got [%s, %s], want [%s, %s]", tc.name, since, until, tc.wantSince, tc.wantUntil)
		}
	}
}

func TestAccessPolicyClampWithoutLimits(t *testing.T) {
	t.Parallel()

	since, until := AccessPolicy{}.Clamp(fixedNow, time.Time{}, time.Time{})
	if !since.IsZero() || !until.Equal(fixedNow) {
		t.Fatalf("unexpected range [%s, %s]", since, until)
	}
}

func TestIsTransactional(t *testing.T) {
	t.Parallel()

	policy := AccessPolicy{TransactionalKeywords: []string{"Order #", "tracking number"}}

	cases := map[string]struct {
		doc  domain.RawDocument
		want bool
	}{
		"subject":    {domain.RawDocument{Subject: "Your ORDER #1234"}, true},
		"body":       {domain.RawDocument{Body: "<p>Tracking number: 1Z999</p>"}, true},
		"newsletter": {domain.RawDocument{Subject: "Spring sale", Body: "<p>40% off</p>"}, false},
	}
	for name, tc := range cases {
		if got := policy.IsTransactional(tc.doc); got != tc.want {
			t.Fatalf("%s: got %v, want %v", name, got, tc.want)
		}
	}

	if !(AccessPolicy{}).IsTransactional(domain.RawDocument{}) {
		t.Fatalf("policy without keywords should accept every document")
	}
}
