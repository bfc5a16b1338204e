package tune

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridHas81Rows(t *testing.T) {
	grid := Grid()
	require.Len(t, grid, 81)
}

func TestGridMinNCyclesEveryThreeRows(t *testing.T) {
	grid := Grid()
	for i, p := range grid {
		assert.Equal(t, []int{40, 50, 60}[i%3], p.MinN, "row %d", i)
	}
}

func TestGridTreeDepthCyclesInBlocksOfThree(t *testing.T) {
	grid := Grid()
	for i, p := range grid {
		assert.Equal(t, []int{5, 10, 15}[(i/3)%3], p.TreeDepth, "row %d", i)
	}
	// Spot-check the nine-row block boundary.
	assert.Equal(t, 5, grid[2].TreeDepth)
	assert.Equal(t, 10, grid[3].TreeDepth)
	assert.Equal(t, 15, grid[8].TreeDepth)
	assert.Equal(t, 5, grid[9].TreeDepth)
}

func TestGridCombinationsDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range Grid() {
		key := fmt.Sprintf("%d/%d/%g/%g", p.TreeDepth, p.MinN, p.LearnRate, p.LossReduction)
		require.False(t, seen[key], "duplicate grid point %s", key)
		seen[key] = true
	}
}

func TestGridThreeLevelsPerParameter(t *testing.T) {
	depths := map[int]bool{}
	minNs := map[int]bool{}
	rates := map[float64]bool{}
	reductions := map[float64]bool{}
	for _, p := range Grid() {
		depths[p.TreeDepth] = true
		minNs[p.MinN] = true
		rates[p.LearnRate] = true
		reductions[p.LossReduction] = true
		assert.Equal(t, 1000, p.Trees)
	}
	assert.Len(t, depths, 3)
	assert.Len(t, minNs, 3)
	assert.Len(t, rates, 3)
	assert.Len(t, reductions, 3)
}
