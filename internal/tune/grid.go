package tune

import "github.com/benefit-lab/uctakeup/internal/boost"

// Three levels per tunable parameter, 81 combinations. learn_rate and
// loss_reduction keep log-spaced generated levels; min_n and tree_depth are
// overridden with explicit interleaved sequences: min_n cycles 40,50,60
// every three rows, tree_depth cycles blocks of 5,5,5 / 10,10,10 / 15,15,15
// every nine rows.
var (
	minNCycle      = []int{40, 50, 60}
	treeDepthCycle = []int{5, 10, 15}
	learnRates     = []float64{1e-10, 3.1622776601683795e-06, 0.1}               // 10^-10, 10^-5.5, 10^-1
	lossReductions = []float64{1e-10, 5.623413251903491e-05, 31.622776601683793} // 10^-10, 10^-4.25, 10^1.5
)

// GridSize is the number of hyperparameter combinations evaluated.
const GridSize = 81

// Grid returns the 81-point hyperparameter grid in its fixed row order.
func Grid() []boost.Params {
	grid := make([]boost.Params, GridSize)
	for i := range grid {
		grid[i] = boost.Params{
			Trees:         boost.DefaultTrees,
			MinN:          minNCycle[i%3],
			TreeDepth:     treeDepthCycle[(i/3)%3],
			LearnRate:     learnRates[(i/9)%3],
			LossReduction: lossReductions[i/27],
		}
	}
	return grid
}
