package models

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"modelbias/internal/features"
)

func init() {
	gob.Register(&DecisionTree{})
	gob.Register(&RandomForest{})
	gob.Register(&Bagging{})
	gob.Register(&GradientBoosting{})
}

const predictBatch = 1024

// TextModel turns a pretrained vector Model into a Scorer by hashing text
// features. Models are stored as gob files (SaveTextModel, LoadTextModel).
type TextModel struct {
	ID         string
	Vectorizer *features.Vectorizer
	Model      Model
}

func (m *TextModel) Name() string { return m.ID }

func (m *TextModel) Predict(ctx context.Context, texts []string) ([]float64, error) {
	out := make([]float64, 0, len(texts))
	for start := 0; start < len(texts); start += predictBatch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+predictBatch, len(texts))
		out = append(out, m.Model.PredictProba(m.Vectorizer.VectorizeAll(texts[start:end]))...)
	}
	return out, nil
}

func SaveTextModel(path string, m *TextModel) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(m); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func LoadTextModel(path string) (*TextModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var m TextModel
	if err := gob.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if m.Vectorizer == nil || m.Model == nil {
		return nil, fmt.Errorf("decode %s: incomplete model", path)
	}
	if c, ok := m.Model.(interface{ checkFeatures(int) error }); ok {
		if err := c.checkFeatures(m.Vectorizer.Width()); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return &m, nil
}
