package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WardrobeScanner/internal/domain"
)

func TestAggregateKeepsHighestScoringDuplicate(t *testing.T) {
	t.Parallel()

	batch := Aggregate([][]domain.Candidate{
		{cand("Linen Shirt", "https://img/shirt.jpg", 40)},
		{cand("Linen Shirt", "https://img/shirt.jpg", 85)},
	})

	require.Equal(t, 1, batch.Len())
	assert.Equal(t, 85, batch.Candidates[0].Score)
}

func TestAggregateOrdersByScoreAndKeepsTiesStable(t *testing.T) {
	t.Parallel()

	batch := Aggregate([][]domain.Candidate{
		{cand("Scarf", "a", 60), cand("Boots", "b", 90)},
		{cand("Belt", "c", 60), cand("Boots again", "b", 90)},
		nil,
		{cand("Cap", "d", 10)},
	})

	names := make([]string, 0, batch.Len())
	for _, c := range batch.Candidates {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Boots", "Scarf", "Belt", "Cap"}, names)
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	batch := Aggregate(nil)
	assert.Zero(t, batch.Len())
	assert.Empty(t, batch.ReviewItems())
}

func TestExtractBatchIsDeterministic(t *testing.T) {
	t.Parallel()

	extractor := stubExtractor{
		"1": {cand("Wool Coat", "coat", 60), cand("Silk Tie", "tie", 70)},
		"2": {cand("Wool Coat", "coat", 90)},
	}
	docs := []domain.RawDocument{{ID: "1"}, {ID: "broken"}, {ID: "2"}, {ID: "3"}}

	first := ExtractBatch(extractor, docs)
	for n := 0; n < 5; n++ {
		assert.Equal(t, first, ExtractBatch(extractor, docs))
	}

	require.Equal(t, 2, first.Len())
	assert.Equal(t, cand("Wool Coat", "coat", 90), first.Candidates[0])
	assert.Equal(t, "Silk Tie", first.Candidates[1].Name)
}
