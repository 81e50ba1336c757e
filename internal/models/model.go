package models

import (
	"context"
	"errors"
	"fmt"
)

// Model is a pretrained binary classifier over feature vectors.
type Model interface {
	Predict(X [][]float64) []int
	PredictProba(X [][]float64) []float64
	Name() string
}

//go:generate mockgen -destination mocks/mock_scorer.go -package mocks modelbias/internal/models Scorer

// Scorer is a model handle as seen by the bias analysis: an identifier and a
// batch inference over raw texts returning one score in [0,1] per text.
type Scorer interface {
	Name() string
	Predict(ctx context.Context, texts []string) ([]float64, error)
}

var (
	ErrUnknownKind  = errors.New("unknown model kind")
	ErrScoreCount   = errors.New("model returned wrong number of scores")
	ErrFeatureRange = errors.New("model reads a feature outside the vectorizer width")
)

func checkFeature(f, width int) error {
	if f < 0 || f >= width {
		return fmt.Errorf("%w: feature %d, width %d", ErrFeatureRange, f, width)
	}
	return nil
}

func threshold(ps []float64) []int {
	out := make([]int, len(ps))
	for i := range ps {
		if ps[i] >= 0.5 {
			out[i] = 1
		}
	}
	return out
}
