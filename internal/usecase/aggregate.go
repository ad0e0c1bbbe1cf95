package usecase

import (
	"cmp"
	"slices"

	"WardrobeScanner/internal/domain"
	"WardrobeScanner/internal/ports"
)

// Aggregate merges per-document candidates into one ranked batch. Candidates
// are stable-sorted by score, highest first, and only the first candidate per
// image URL survives, so a duplicate never outranks the copy that was kept.
func Aggregate(perDocument [][]domain.Candidate) domain.RankedBatch {
	var all []domain.Candidate
	for _, cands := range perDocument {
		all = append(all, cands...)
	}

	slices.SortStableFunc(all, func(a, b domain.Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})

	seen := make(map[string]struct{}, len(all))
	kept := make([]domain.Candidate, 0, len(all))
	for _, c := range all {
		if _, dup := seen[c.ImageURL]; dup {
			continue
		}
		seen[c.ImageURL] = struct{}{}
		kept = append(kept, c)
	}

	return domain.RankedBatch{Candidates: kept}
}

// ExtractBatch runs extractor over every document in order and aggregates the
// results. A document whose extraction fails contributes nothing.
func ExtractBatch(extractor ports.ProductExtractor, docs []domain.RawDocument) domain.RankedBatch {
	perDocument := make([][]domain.Candidate, 0, len(docs))
	for _, doc := range docs {
		cands, err := extractor.ExtractProducts(doc)
		if err != nil {
			continue
		}
		perDocument = append(perDocument, cands)
	}
	return Aggregate(perDocument)
}
