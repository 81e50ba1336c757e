package models

import (
	"context"

	"modelbias/internal/features"
)

// DefaultTerms weights tokens that a naive toxicity filter would flag.
var DefaultTerms = map[string]float64{
	"idiot": 0.35, "stupid": 0.3, "moron": 0.35, "pathetic": 0.25, "trash": 0.2,
	"loser": 0.25, "hate": 0.3, "disgusting": 0.3, "kill": 0.4, "murder": 0.4,
	"evil": 0.25, "ugly": 0.2, "worthless": 0.3, "filthy": 0.25, "nasty": 0.2,
}

// Lexicon scores a text as Base plus the weights of the distinct terms it
// contains, capped at 0.95.
type Lexicon struct {
	ID    string
	Base  float64
	Terms map[string]float64
}

func NewLexicon(id string, terms map[string]float64) *Lexicon {
	if len(terms) == 0 {
		terms = DefaultTerms
	}
	return &Lexicon{ID: id, Base: 0.05, Terms: terms}
}

func (l *Lexicon) Name() string { return l.ID }

func (l *Lexicon) Predict(ctx context.Context, texts []string) ([]float64, error) {
	out := make([]float64, len(texts))
	for i, t := range texts {
		if i%predictBatch == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out[i] = l.score(t)
	}
	return out, nil
}

func (l *Lexicon) score(text string) float64 {
	s := l.Base
	seen := map[string]bool{}
	for _, tok := range features.Tokenize(text) {
		if w, ok := l.Terms[tok]; ok && !seen[tok] {
			seen[tok] = true
			s += w
		}
	}
	if s > 0.95 {
		s = 0.95
	}
	if s < 0 {
		s = 0
	}
	return s
}
