package analysis

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"modelbias/internal/data"
)

// FamilyAUC holds the per-model AUCs of a family, in model order, and their
// summary statistics. Std is the population standard deviation.
type FamilyAUC struct {
	Models []string  `json:"models"`
	AUCs   []float64 `json:"aucs"`
	Mean   float64   `json:"mean"`
	Median float64   `json:"median"`
	Std    float64   `json:"std"`
}

// Summarize returns mean, median and population standard deviation of xs.
// All three are NaN when xs is empty.
func Summarize(xs []float64) (mean, median, std float64) {
	if len(xs) == 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	mean, std = stat.PopMeanStdDev(xs, nil)

	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		median = sorted[mid]
	} else {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}
	return mean, median, std
}

// ModelFamilyAUC computes the AUC of each named score column of t against
// the boolean labelCol.
func ModelFamilyAUC(t *data.Table, modelNames []string, labelCol string) (FamilyAUC, error) {
	labels, err := t.Bools(labelCol)
	if err != nil {
		return FamilyAUC{}, err
	}
	res := FamilyAUC{
		Models: slices.Clone(modelNames),
		AUCs:   make([]float64, 0, len(modelNames)),
	}
	for _, name := range modelNames {
		scores, err := t.Floats(name)
		if err != nil {
			return FamilyAUC{}, err
		}
		auc, err := ComputeAUC(labels, scores)
		if err != nil {
			return FamilyAUC{}, fmt.Errorf("model %s: %w", name, err)
		}
		res.AUCs = append(res.AUCs, auc)
	}
	res.Mean, res.Median, res.Std = Summarize(res.AUCs)
	return res, nil
}
