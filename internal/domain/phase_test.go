package domain

import "testing"

func TestImportPhaseCanAdvance(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, to ImportPhase
		want     bool
	}{
		{PhaseAuthenticating, PhaseSearching, true},
		{PhaseSearching, PhaseParsing, true},
		{PhaseParsing, PhaseComplete, true},
		{PhaseParsing, PhaseDownloading, true},
		{PhaseDownloading, PhaseComplete, true},
		{PhaseParsing, PhaseSearching, false},
		{PhaseParsing, PhaseParsing, false},
		{PhaseComplete, PhaseComplete, false},
		{PhaseComplete, PhaseAuthenticating, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanAdvance(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestRankedBatchReviewItems(t *testing.T) {
	t.Parallel()

	batch := RankedBatch{Candidates: []Candidate{
		{Name: "Linen Shirt", ImageURL: "https://cdn.example.com/a.jpg", Brand: "Zara", Size: "M", Score: 90, Tags: []string{"generic"}},
		{Name: "Wool Coat", ImageURL: "https://cdn.example.com/b.jpg", Score: 60},
	}}

	items := batch.ReviewItems()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Name != "Linen Shirt" || items[0].Brand != "Zara" || items[0].Size != "M" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].ImageURL != "https://cdn.example.com/b.jpg" {
		t.Fatalf("unexpected order: %+v", items)
	}
}
