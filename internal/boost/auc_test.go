package boost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAUCPerfectRanking(t *testing.T) {
	auc, err := AUC([]float64{0.1, 0.2, 0.8, 0.9}, []int{0, 0, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, auc, 1e-12)
}

func TestAUCInvertedRanking(t *testing.T) {
	auc, err := AUC([]float64{0.9, 0.8, 0.2, 0.1}, []int{0, 0, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, auc, 1e-12)
}

func TestAUCHandComputed(t *testing.T) {
	// One inversion among the four points: 3 of 4 positive/negative pairs
	// ranked correctly.
	auc, err := AUC([]float64{0.1, 0.4, 0.35, 0.8}, []int{0, 0, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, auc, 1e-12)
}

func TestAUCErrors(t *testing.T) {
	_, err := AUC(nil, nil)
	require.Error(t, err)

	_, err = AUC([]float64{0.5}, []int{1, 0})
	require.Error(t, err)

	_, err = AUC([]float64{0.2, 0.4}, []int{1, 1})
	require.Error(t, err)
}
