package models

// Ensemble averages the probabilities of its trees. With no trees it
// scores 0.5.
type Ensemble struct {
	Trees []*DecisionTree
}

func (e *Ensemble) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if len(e.Trees) == 0 {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	for _, dt := range e.Trees {
		for i, p := range dt.PredictProba(X) {
			out[i] += p
		}
	}
	m := float64(len(e.Trees))
	for i := range out {
		out[i] /= m
	}
	return out
}

func (e *Ensemble) Predict(X [][]float64) []int { return threshold(e.PredictProba(X)) }

func (e *Ensemble) checkFeatures(width int) error {
	for _, dt := range e.Trees {
		if err := dt.checkFeatures(width); err != nil {
			return err
		}
	}
	return nil
}

// RandomForest is an Ensemble whose trees were grown on random feature
// subsets.
type RandomForest struct {
	Ensemble
}

func (rf *RandomForest) Name() string { return "RandomForest" }
