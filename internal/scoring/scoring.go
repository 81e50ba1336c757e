// Package scoring attaches per-model score columns to a dataset and caches
// the result on disk so a model family is scored at most once.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"modelbias/internal/data"
	"modelbias/internal/models"
)

var (
	// ErrMissingInput is returned when neither the cache nor the raw dataset exists.
	ErrMissingInput = errors.New("raw dataset not found")
	// ErrColumnConflict is returned when a model name repeats or shadows a dataset column.
	ErrColumnConflict = errors.New("model name conflicts with an existing column")
)

// Paths locates the raw madlibs dataset and the scored cache artifact.
type Paths struct {
	Raw    string
	Scored string
}

type Options struct {
	// Parallelism bounds how many models score at once. Values below 2
	// score sequentially in the given order.
	Parallelism int
	// TextColumn and LabelColumn name the normalized columns of the cache.
	// Empty means data.TextColumn and data.LabelColumn.
	TextColumn  string
	LabelColumn string
	Logger      *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) columns() (text, label string) {
	text, label = o.TextColumn, o.LabelColumn
	if text == "" {
		text = data.TextColumn
	}
	if label == "" {
		label = data.LabelColumn
	}
	return text, label
}

// ScoreDataset returns a copy of t with one column per model, named by the
// model and holding its scores for textCol in row order. If any model fails
// it returns nil and the error; t itself is never modified.
func ScoreDataset(ctx context.Context, t *data.Table, family []models.Scorer, textCol string, opts Options) (*data.Table, error) {
	texts, err := t.Strings(textCol)
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(family))
	for _, m := range family {
		name := m.Name()
		if names[name] || t.Has(name) {
			return nil, fmt.Errorf("%w: %q", ErrColumnConflict, name)
		}
		names[name] = true
	}

	log := opts.logger()
	scores := make([][]float64, len(family))
	score := func(ctx context.Context, i int) error {
		m := family[i]
		name := m.Name()
		start := time.Now()
		log.Info("scoring with model", zap.String("model", name), zap.Time("started", start))
		s, err := m.Predict(ctx, texts)
		if err != nil {
			return fmt.Errorf("model %s: %w", name, err)
		}
		if len(s) != len(texts) {
			return fmt.Errorf("%w: %s returned %d scores for %d rows", models.ErrScoreCount, name, len(s), len(texts))
		}
		scores[i] = s
		log.Info("scored with model", zap.String("model", name), zap.Time("finished", time.Now()), zap.Duration("took", time.Since(start)))
		return nil
	}

	if opts.Parallelism < 2 {
		for i := range family {
			if err := score(ctx, i); err != nil {
				return nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Parallelism)
		for i := range family {
			g.Go(func() error { return score(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	out := t
	for i, m := range family {
		if out, err = out.WithFloats(m.Name(), scores[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// LoadScoredMadlibs returns the cached scored table when paths.Scored exists,
// without invoking any model. Otherwise it normalizes paths.Raw, names the
// label and text columns per opts, scores the text column with every model
// and writes the cache before returning.
//
// An existing cache is trusted as is: nothing ties it to the family that
// produced it.
func LoadScoredMadlibs(ctx context.Context, family []models.Scorer, paths Paths, opts Options) (*data.Table, error) {
	log := opts.logger()
	if _, err := os.Stat(paths.Scored); err == nil {
		log.Info("using previously scored data", zap.String("path", paths.Scored))
		return data.ReadCSV(paths.Scored)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	raw, err := data.ReadCSV(paths.Raw)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingInput, paths.Raw)
	}
	if err != nil {
		return nil, err
	}
	madlibs, err := data.PostprocessMadlibs(raw)
	if err != nil {
		return nil, err
	}
	textCol, labelCol := opts.columns()
	if madlibs, err = madlibs.Rename(map[string]string{data.TextColumn: textCol, data.LabelColumn: labelCol}); err != nil {
		return nil, err
	}
	scored, err := ScoreDataset(ctx, madlibs, family, textCol, opts)
	if err != nil {
		return nil, err
	}
	log.Info("saving scores", zap.String("path", paths.Scored), zap.Int("rows", scored.Len()), zap.Int("models", len(family)))
	if err := data.WriteCSV(paths.Scored, scored); err != nil {
		return nil, fmt.Errorf("write cache: %w", err)
	}
	return scored, nil
}

// ModelColumns lists the columns of a scored table other than the given
// dataset columns, i.e. the models it was scored with. An unnamed index
// column, as written by pandas, is skipped too.
func ModelColumns(t *data.Table, datasetCols ...string) []string {
	skip := make(map[string]bool, len(datasetCols))
	for _, c := range datasetCols {
		skip[c] = true
	}
	var out []string
	for _, c := range t.Columns() {
		if !skip[c] && c != "" {
			out = append(out, c)
		}
	}
	return out
}
