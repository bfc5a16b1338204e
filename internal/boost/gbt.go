package boost

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
)

// Params are the classifier's hyperparameters. Trees is fixed per run; the
// other four are the tuning dimensions.
type Params struct {
	Trees         int
	TreeDepth     int
	MinN          int
	LearnRate     float64
	LossReduction float64
}

// DefaultTrees is the fixed ensemble size.
const DefaultTrees = 1000

// Model is a gradient-boosted ensemble of regression trees under logistic
// loss, predicting the probability of benefit receipt.
type Model struct {
	params Params
	bias   float64
	trees  []*node
}

type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	leaf      bool
	value     float64
}

// Train fits the ensemble on X (n rows × p features) and 0/1 labels y.
func Train(X [][]float64, y []int, p Params) (*Model, error) {
	if len(X) == 0 {
		return nil, eris.New("boost: empty training set")
	}
	if len(X) != len(y) {
		return nil, eris.Errorf("boost: %d rows but %d labels", len(X), len(y))
	}
	if p.Trees <= 0 || p.TreeDepth <= 0 || p.MinN <= 0 || p.LearnRate <= 0 {
		return nil, eris.Errorf("boost: invalid params %+v", p)
	}

	n := len(X)
	pos := 0
	for _, label := range y {
		pos += label
	}
	// Initial score is the log-odds of the base rate, clamped away from the
	// degenerate single-class case.
	rate := math.Min(math.Max(float64(pos)/float64(n), 1e-6), 1-1e-6)
	m := &Model{params: p, bias: math.Log(rate / (1 - rate))}

	score := make([]float64, n)
	for i := range score {
		score[i] = m.bias
	}

	grad := make([]float64, n)
	hess := make([]float64, n)
	idx := make([]int, n)
	for t := 0; t < p.Trees; t++ {
		for i := 0; i < n; i++ {
			prob := sigmoid(score[i])
			grad[i] = prob - float64(y[i])
			hess[i] = prob * (1 - prob)
			idx[i] = i
		}

		tree := buildNode(X, grad, hess, idx, 0, p)
		m.trees = append(m.trees, tree)

		for i := 0; i < n; i++ {
			score[i] += p.LearnRate * tree.predict(X[i])
		}
	}
	return m, nil
}

// Predict returns receipt probabilities for each row of X.
func (m *Model) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		s := m.bias
		for _, t := range m.trees {
			s += m.params.LearnRate * t.predict(x)
		}
		out[i] = sigmoid(s)
	}
	return out
}

func (n *node) predict(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// buildNode grows a regression tree on the logistic gradients by recursive
// binary splitting. A split is accepted only when its gain clears the
// loss-reduction threshold and both children hold at least MinN rows.
func buildNode(X [][]float64, grad, hess []float64, idx []int, depth int, p Params) *node {
	var sumG, sumH float64
	for _, i := range idx {
		sumG += grad[i]
		sumH += hess[i]
	}

	leaf := &node{leaf: true, value: newtonStep(sumG, sumH)}
	if depth >= p.TreeDepth || len(idx) < 2*p.MinN {
		return leaf
	}

	feature, threshold, gain := bestSplit(X, grad, hess, idx, sumG, sumH, p.MinN)
	if feature < 0 || gain <= p.LossReduction {
		return leaf
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &node{
		feature:   feature,
		threshold: threshold,
		left:      buildNode(X, grad, hess, left, depth+1, p),
		right:     buildNode(X, grad, hess, right, depth+1, p),
	}
}

// bestSplit scans every feature with a sorted sweep over the node's rows,
// scoring candidate thresholds by the Newton gain.
func bestSplit(X [][]float64, grad, hess []float64, idx []int, sumG, sumH float64, minN int) (int, float64, float64) {
	bestFeature := -1
	var bestThreshold, bestGain float64

	order := make([]int, len(idx))
	parent := gainTerm(sumG, sumH)

	for f := range X[idx[0]] {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

		var leftG, leftH float64
		for pos := 0; pos < len(order)-1; pos++ {
			i := order[pos]
			leftG += grad[i]
			leftH += hess[i]

			// Only cut between distinct values.
			if X[order[pos]][f] == X[order[pos+1]][f] {
				continue
			}
			if pos+1 < minN || len(order)-pos-1 < minN {
				continue
			}

			gain := gainTerm(leftG, leftH) + gainTerm(sumG-leftG, sumH-leftH) - parent
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (X[order[pos]][f] + X[order[pos+1]][f]) / 2
			}
		}
	}
	return bestFeature, bestThreshold, bestGain
}

func gainTerm(g, h float64) float64 {
	if h < 1e-12 {
		return 0
	}
	return g * g / h
}

func newtonStep(g, h float64) float64 {
	if h < 1e-12 {
		return 0
	}
	return -g / h
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
