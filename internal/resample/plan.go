// Package resample partitions the modelling table into train/test and
// generates the cross-validation plans the tuner evaluates against.
package resample

import (
	"math/rand"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/benefit-lab/uctakeup/internal/features"
)

// Defaults document the chosen resampling parameters.
const (
	DefaultTrainFraction = 0.8
	DefaultRepeats       = 25
	DefaultValFraction   = 0.25
	DefaultFolds         = 5
)

// Resample is one train/validation pair of indices into the full row set.
type Resample struct {
	Train []int
	Val   []int
}

// Plan is a reproducible partition of the modelling table: a stratified
// train/test split plus Monte-Carlo and k-fold resamples over the training
// partition. The same seed always yields the same plan.
type Plan struct {
	Seed       int64
	Train      []int
	Test       []int
	MonteCarlo []Resample
	Folds      []Resample
}

// Options configures New. Zero values fall back to the package defaults.
type Options struct {
	Seed          int64
	TrainFraction float64
	Repeats       int
	ValFraction   float64
	Folds         int
}

func (o *Options) fill() {
	if o.TrainFraction == 0 {
		o.TrainFraction = DefaultTrainFraction
	}
	if o.Repeats == 0 {
		o.Repeats = DefaultRepeats
	}
	if o.ValFraction == 0 {
		o.ValFraction = DefaultValFraction
	}
	if o.Folds == 0 {
		o.Folds = DefaultFolds
	}
}

// New builds the full resampling plan for rows. The train/test split is
// stratified by year: each year's rows split independently at the train
// fraction, then recombine.
func New(rows []features.ModelRow, opts Options) (*Plan, error) {
	opts.fill()
	if len(rows) == 0 {
		return nil, eris.New("resample: empty modelling table")
	}
	if opts.TrainFraction <= 0 || opts.TrainFraction >= 1 {
		return nil, eris.Errorf("resample: train fraction %v out of (0,1)", opts.TrainFraction)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	p := &Plan{Seed: opts.Seed}

	// Stratified split: iterate years in sorted order so the rng stream is
	// consumed identically on every run.
	byYear := make(map[int][]int)
	for i, r := range rows {
		byYear[r.Year] = append(byYear[r.Year], i)
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	for _, y := range years {
		idx := byYear[y]
		perm := rng.Perm(len(idx))
		nTrain := int(float64(len(idx)) * opts.TrainFraction)
		for i, j := range perm {
			if i < nTrain {
				p.Train = append(p.Train, idx[j])
			} else {
				p.Test = append(p.Test, idx[j])
			}
		}
	}
	sort.Ints(p.Train)
	sort.Ints(p.Test)

	p.MonteCarlo = monteCarlo(rng, p.Train, opts.Repeats, opts.ValFraction)
	p.Folds = kFold(rng, p.Train, opts.Folds)

	zap.L().Info("resampling plan ready",
		zap.Int64("seed", opts.Seed),
		zap.Int("train", len(p.Train)),
		zap.Int("test", len(p.Test)),
		zap.Int("mc_resamples", len(p.MonteCarlo)),
		zap.Int("folds", len(p.Folds)),
	)
	return p, nil
}

// monteCarlo draws repeated random train/validation splits of the training
// partition ("Monte-Carlo cross-validation").
func monteCarlo(rng *rand.Rand, train []int, repeats int, valFraction float64) []Resample {
	out := make([]Resample, 0, repeats)
	nVal := int(float64(len(train)) * valFraction)
	for rep := 0; rep < repeats; rep++ {
		perm := rng.Perm(len(train))
		r := Resample{
			Train: make([]int, 0, len(train)-nVal),
			Val:   make([]int, 0, nVal),
		}
		for i, j := range perm {
			if i < nVal {
				r.Val = append(r.Val, train[j])
			} else {
				r.Train = append(r.Train, train[j])
			}
		}
		out = append(out, r)
	}
	return out
}

// kFold partitions the training rows into k folds; each resample holds one
// fold out for validation.
func kFold(rng *rand.Rand, train []int, k int) []Resample {
	folds := make([][]int, k)
	for i, j := range rng.Perm(len(train)) {
		folds[i%k] = append(folds[i%k], train[j])
	}

	out := make([]Resample, k)
	for f := 0; f < k; f++ {
		for g := 0; g < k; g++ {
			if g == f {
				out[f].Val = append(out[f].Val, folds[g]...)
			} else {
				out[f].Train = append(out[f].Train, folds[g]...)
			}
		}
	}
	return out
}
