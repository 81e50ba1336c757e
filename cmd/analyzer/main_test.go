package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"modelbias/internal/analysis"
	"modelbias/internal/config"
	"modelbias/internal/data"
	"modelbias/internal/models"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.RawPath = filepath.Join(dir, "madlibs.csv")
	cfg.ScoredPath = filepath.Join(dir, "madlibs_scored.csv")
	cfg.HistogramPath = filepath.Join(dir, "auc.png")
	cfg.ModelDir = filepath.Join(dir, "models")
	cfg.Models = []models.Spec{
		{Name: "lexicon", Kind: models.KindLexicon},
		{Name: "strict", Kind: models.KindLexicon, Terms: map[string]float64{"kill": 0.9, "evil": 0.9}},
	}
	require.NoError(t, data.GenerateMadlibs(300, 7, cfg.RawPath))
	return cfg
}

func TestRunColdThenWarm(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	var first bytes.Buffer
	res, err := run(context.Background(), cfg, false, &first, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"lexicon", "strict"}, res.Models)
	assert.Contains(t, first.String(), "mean AUC: ")
	assert.Contains(t, first.String(), "median: ")
	assert.Contains(t, first.String(), "stddev: ")
	_, err = os.Stat(cfg.HistogramPath)
	require.NoError(t, err)

	core, logs := observer.New(zap.InfoLevel)
	var second bytes.Buffer
	again, err := run(context.Background(), cfg, false, &second, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, res, again)
	assert.Equal(t, first.String(), second.String())
	assert.Equal(t, 1, logs.FilterMessage("using previously scored data").Len())
	assert.Zero(t, logs.FilterMessage("scoring with model").Len())
}

func TestRunInfersModelsFromCache(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	_, err := run(context.Background(), cfg, false, &bytes.Buffer{}, zap.NewNop())
	require.NoError(t, err)

	cfg.Models = nil
	var out bytes.Buffer
	res, err := run(context.Background(), cfg, true, &out, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"lexicon", "strict"}, res.Models)

	var decoded analysis.FamilyAUC
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, res.Models, decoded.Models)
	assert.InDelta(t, res.Mean, decoded.Mean, 1e-12)
}

func TestRunWithCustomColumns(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.TextColumn = "comment"
	cfg.LabelColumn = "toxic"
	res, err := run(context.Background(), cfg, false, &bytes.Buffer{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"lexicon", "strict"}, res.Models)

	scored, err := data.ReadCSV(cfg.ScoredPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"toxic", "comment", "lexicon", "strict"}, scored.Columns())

	cfg.Models = nil
	inferred, err := run(context.Background(), cfg, false, &bytes.Buffer{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, res, inferred)
}

func TestRunWithoutInput(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.RawPath = filepath.Join(t.TempDir(), "absent.csv")
	_, err := run(context.Background(), cfg, false, &bytes.Buffer{}, zap.NewNop())
	require.Error(t, err)
}

func TestOverrides(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	overrides(&cfg, "r.csv", "", "h.png", 0.5, -1)
	assert.Equal(t, "r.csv", cfg.RawPath)
	assert.Equal(t, config.Default().ScoredPath, cfg.ScoredPath)
	assert.Equal(t, "h.png", cfg.HistogramPath)
	assert.Equal(t, 0.5, cfg.MinAUC)
	assert.Equal(t, 0, cfg.Parallelism)
}
