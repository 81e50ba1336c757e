// Package analysis measures how a family of models separates the madlibs
// labels: per-model ROC AUC, summary statistics over the family and a
// histogram of the AUC spread.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrLengthMismatch = errors.New("labels and scores differ in length")
	ErrSingleClass    = errors.New("labels contain a single class")
	ErrInvalidScore   = errors.New("score is NaN")
)

// ComputeAUC returns the area under the ROC curve of scores against labels,
// true being the positive class. Tied scores share a single ROC point, which
// is equivalent to average-rank tie handling.
func ComputeAUC(labels []bool, scores []float64) (float64, error) {
	if len(labels) != len(scores) {
		return 0, fmt.Errorf("%w: %d labels, %d scores", ErrLengthMismatch, len(labels), len(scores))
	}
	var pos int
	for i, s := range scores {
		if math.IsNaN(s) {
			return 0, fmt.Errorf("%w: row %d", ErrInvalidScore, i)
		}
		if labels[i] {
			pos++
		}
	}
	if pos == 0 || pos == len(labels) {
		return 0, ErrSingleClass
	}

	y := make([]float64, len(scores))
	copy(y, scores)
	classes := make([]bool, len(labels))
	copy(classes, labels)
	stat.SortWeightedLabeled(y, classes, nil)

	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}
