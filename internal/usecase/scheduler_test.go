package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerContinuesFromLastSuccessfulRun(t *testing.T) {
	t.Parallel()

	source := &fakeSource{docs: orderDocs}
	importer := NewImporter(ImporterDeps{
		Source:    source,
		Extractor: orderCandidates,
		Policy:    AccessPolicy{LookbackDays: 3},
		Now:       fixedClock,
	})
	s := NewScheduler(nil, importer, nil)

	first := fixedNow.Add(-2 * time.Hour)
	s.RunOnce(context.Background(), first)
	assert.Equal(t, first, s.LastRun())

	s.RunOnce(context.Background(), fixedNow)
	require.Len(t, source.queries, 2)
	assert.Equal(t, first.AddDate(0, 0, -3), source.queries[0].Since)
	assert.Equal(t, first, source.queries[1].Since)
	assert.Equal(t, fixedNow, s.LastRun())
}

func TestSchedulerKeepsWindowAfterFailure(t *testing.T) {
	t.Parallel()

	source := &fakeSource{err: errors.New("offline")}
	s := NewScheduler(nil, NewImporter(ImporterDeps{Source: source, Extractor: orderCandidates, Now: fixedClock}), nil)

	s.RunOnce(context.Background(), fixedNow)
	assert.True(t, s.LastRun().IsZero())
}

func TestSchedulerWithoutDriverIsNoop(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil, nil, nil)
	assert.NoError(t, s.Start(context.Background()))
	assert.NoError(t, s.Stop(context.Background()))
}
