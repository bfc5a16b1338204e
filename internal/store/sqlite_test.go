package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benefit-lab/uctakeup/internal/boost"
	"github.com/benefit-lab/uctakeup/internal/tune"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "tuning.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testResult(scores []tune.Score) *tune.Result {
	now := time.Now().UTC().Truncate(time.Second)
	return &tune.Result{
		RunID:      uuid.New().String(),
		Seed:       42,
		ModelRows:  100,
		TrainRows:  80,
		TestRows:   20,
		Scores:     scores,
		StartedAt:  now,
		FinishedAt: now.Add(time.Minute),
	}
}

func score(grid, rs int, value float64) tune.Score {
	return tune.Score{
		GridIndex: grid,
		Params: boost.Params{
			Trees: 1000, TreeDepth: 5 + grid, MinN: 40, LearnRate: 0.1, LossReduction: 0.01,
		},
		Resample: rs,
		Metric:   tune.MetricROCAUC,
		Value:    value,
	}
}

func TestSaveResultRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	res := testResult([]tune.Score{
		score(0, 0, 0.61),
		score(0, 1, 0.63),
		score(1, 0, 0.71),
		score(1, 1, 0.69),
	})
	require.NoError(t, st.SaveResult(ctx, res, "seed: 42\n"))

	got, err := st.Scores(ctx, res.RunID)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, 0, got[0].GridIndex)
	assert.Equal(t, 0, got[0].Resample)
	assert.Equal(t, 0.61, got[0].Value)
	assert.Equal(t, tune.MetricROCAUC, got[0].Metric)
	assert.Equal(t, 5, got[0].Params.TreeDepth)
	assert.Equal(t, 40, got[0].Params.MinN)
}

func TestMeanScoresViewRanksByMean(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	res := testResult([]tune.Score{
		score(0, 0, 0.60),
		score(0, 1, 0.62),
		score(1, 0, 0.80),
		score(1, 1, 0.84),
	})
	require.NoError(t, st.SaveResult(ctx, res, ""))

	means, err := st.MeanScores(ctx, res.RunID)
	require.NoError(t, err)
	require.Len(t, means, 2)
	assert.Equal(t, 1, means[0].GridIndex)
	assert.InDelta(t, 0.82, means[0].Mean, 1e-12)
	assert.Equal(t, 2, means[0].Resamples)
	assert.Equal(t, 0, means[1].GridIndex)
	assert.InDelta(t, 0.61, means[1].Mean, 1e-12)
}

func TestSaveResultIsTransactional(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	res := testResult([]tune.Score{
		score(0, 0, 0.5),
		score(0, 0, 0.6), // duplicate primary key forces a failure
	})
	require.Error(t, st.SaveResult(ctx, res, ""))

	// Nothing from the failed save is visible.
	got, err := st.Scores(ctx, res.RunID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestScoresUnknownRunEmpty(t *testing.T) {
	st := newTestStore(t)
	got, err := st.Scores(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.Empty(t, got)
}
