package boost

import (
	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// AUC computes the area under the ROC curve for predicted probabilities
// against 0/1 labels.
func AUC(scores []float64, labels []int) (float64, error) {
	if len(scores) != len(labels) {
		return 0, eris.Errorf("auc: %d scores but %d labels", len(scores), len(labels))
	}
	if len(scores) == 0 {
		return 0, eris.New("auc: empty input")
	}

	y := make([]float64, len(scores))
	classes := make([]bool, len(labels))
	pos := 0
	for i := range scores {
		y[i] = scores[i]
		classes[i] = labels[i] == 1
		if classes[i] {
			pos++
		}
	}
	if pos == 0 || pos == len(labels) {
		return 0, eris.New("auc: labels are single-class")
	}

	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}
