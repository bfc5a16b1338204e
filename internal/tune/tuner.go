// Package tune runs the hyperparameter grid search for the receipt
// classifier: every grid point evaluated on every Monte-Carlo resample, in
// parallel, with ROC-AUC as the selection metric. Picking the best point is
// left to downstream consumers of the persisted scores.
package tune

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/benefit-lab/uctakeup/internal/boost"
	"github.com/benefit-lab/uctakeup/internal/features"
	"github.com/benefit-lab/uctakeup/internal/resample"
)

// MetricROCAUC names the tuning metric.
const MetricROCAUC = "roc_auc"

// Score is one grid point evaluated on one resample.
type Score struct {
	GridIndex int
	Params    boost.Params
	Resample  int
	Metric    string
	Value     float64
}

// Result is the complete grid-search outcome for one run.
type Result struct {
	RunID      string
	Seed       int64
	ModelRows  int
	TrainRows  int
	TestRows   int
	Scores     []Score
	StartedAt  time.Time
	FinishedAt time.Time
}

// Options configures a tuning run.
type Options struct {
	// Workers sizes the evaluation pool. Zero means all cores but one,
	// reserving a core for the coordinator.
	Workers int
	// Trees overrides the fixed ensemble size. Zero means boost.DefaultTrees.
	Trees int
}

// Run evaluates the full grid against every Monte-Carlo resample in plan.
// Tasks are independent; each writes only its own result slot, and a full
// barrier precedes any aggregation. Any task failure fails the run.
func Run(ctx context.Context, rows []features.ModelRow, plan *resample.Plan, opts Options) (*Result, error) {
	if len(plan.MonteCarlo) == 0 {
		return nil, eris.New("tune: plan has no resamples")
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = max(1, runtime.NumCPU()-1)
	}

	grid := Grid()
	if opts.Trees > 0 {
		for i := range grid {
			grid[i].Trees = opts.Trees
		}
	}

	X, y := boost.Encode(rows)

	result := &Result{
		RunID:     uuid.New().String(),
		Seed:      plan.Seed,
		ModelRows: len(rows),
		TrainRows: len(plan.Train),
		TestRows:  len(plan.Test),
		StartedAt: time.Now().UTC(),
		Scores:    make([]Score, len(grid)*len(plan.MonteCarlo)),
	}

	log := zap.L().With(zap.String("run_id", result.RunID))
	log.Info("starting grid search",
		zap.Int("grid_points", len(grid)),
		zap.Int("resamples", len(plan.MonteCarlo)),
		zap.Int("workers", workers),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for gi, params := range grid {
		for ri, rs := range plan.MonteCarlo {
			gi, params, ri, rs := gi, params, ri, rs
			slot := gi*len(plan.MonteCarlo) + ri
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				value, err := evaluate(X, y, rs, params)
				if err != nil {
					return eris.Wrapf(err, "tune: grid %d resample %d", gi, ri)
				}
				result.Scores[slot] = Score{
					GridIndex: gi,
					Params:    params,
					Resample:  ri,
					Metric:    MetricROCAUC,
					Value:     value,
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.FinishedAt = time.Now().UTC()
	log.Info("grid search complete",
		zap.Int("scores", len(result.Scores)),
		zap.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)),
	)
	return result, nil
}

// evaluate trains on the resample's training rows and scores ROC-AUC on its
// validation rows.
func evaluate(X [][]float64, y []int, rs resample.Resample, params boost.Params) (float64, error) {
	trainX := gather(X, rs.Train)
	trainY := gatherInts(y, rs.Train)

	model, err := boost.Train(trainX, trainY, params)
	if err != nil {
		return 0, err
	}

	valX := gather(X, rs.Val)
	valY := gatherInts(y, rs.Val)
	return boost.AUC(model.Predict(valX), valY)
}

func gather(X [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = X[j]
	}
	return out
}

func gatherInts(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
