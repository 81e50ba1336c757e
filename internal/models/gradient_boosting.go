package models

import "math"

type Stump struct {
	Feature   int
	Threshold float64
	LeftVal   float64
	RightVal  float64
}

func (s Stump) value(x []float64) float64 {
	if x[s.Feature] > s.Threshold {
		return s.RightVal
	}
	return s.LeftVal
}

// GradientBoosting adds LearningRate times each stump's value to the Init
// log-odds and squashes the sum with the logistic function.
type GradientBoosting struct {
	LearningRate float64
	Init         float64
	Trees        []Stump
}

func (gb *GradientBoosting) Name() string { return "GradientBoosting" }

func sigmoid(z float64) float64 { return 1.0 / (1.0 + math.Exp(-z)) }

func (gb *GradientBoosting) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		f := gb.Init
		for _, t := range gb.Trees {
			f += gb.LearningRate * t.value(X[i])
		}
		out[i] = sigmoid(f)
	}
	return out
}

func (gb *GradientBoosting) Predict(X [][]float64) []int { return threshold(gb.PredictProba(X)) }

func (gb *GradientBoosting) checkFeatures(width int) error {
	for _, t := range gb.Trees {
		if err := checkFeature(t.Feature, width); err != nil {
			return err
		}
	}
	return nil
}
