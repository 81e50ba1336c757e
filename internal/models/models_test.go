package models

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelbias/internal/features"
)

// Feature buckets of a 64-wide vectorizer: "idiot" hashes to 40, "moron"
// to 16 and "weather" to 19.
const (
	idiotBucket = 40
	moronBucket = 16
)

func leaf(p float64) *DTNode { return &DTNode{IsLeaf: true, ProbaLeaf: p} }

func split(feature int, thr float64, l, r *DTNode) *DTNode {
	return &DTNode{Feature: feature, Threshold: thr, Left: l, Right: r}
}

// insultTree scores texts containing "idiot" 0.9 and everything else 0.1.
func insultTree() *DecisionTree {
	return &DecisionTree{Root: split(idiotBucket, 0.5, leaf(0.1), leaf(0.9))}
}

func TestClassifiersScoreVectors(t *testing.T) {
	t.Parallel()

	X := [][]float64{{0, 0, 0.2}, {1, 0, 0.2}, {1, 1, 0.9}}
	moron := &DecisionTree{Root: split(1, 0.5, leaf(0.2), leaf(0.6))}
	first := &DecisionTree{Root: split(0, 0.5, leaf(0.0), split(2, 0.5, leaf(0.5), leaf(1.0)))}

	tests := []struct {
		name  string
		model Model
		want  []float64
	}{
		{"tree", first, []float64{0, 0.5, 1}},
		{"forest", &RandomForest{Ensemble{Trees: []*DecisionTree{first, moron}}}, []float64{0.1, 0.35, 0.8}},
		{"bagging", &Bagging{Ensemble{Trees: []*DecisionTree{moron}}}, []float64{0.2, 0.2, 0.6}},
		{"boosting", &GradientBoosting{LearningRate: 1, Init: 0, Trees: []Stump{{Feature: 0, Threshold: 0.5, LeftVal: -2, RightVal: 2}}},
			[]float64{sigmoid(-2), sigmoid(2), sigmoid(2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.InDeltaSlice(t, tt.want, tt.model.PredictProba(X), 1e-12, tt.model.Name())
			for i, p := range tt.model.Predict(X) {
				assert.Equal(t, tt.want[i] >= 0.5, p == 1)
			}
		})
	}
}

func TestUntrainedModelsPredictHalf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []float64{0.5, 0.5}, (&Bagging{}).PredictProba([][]float64{{1}, {0}}))
	assert.Equal(t, []float64{0.5}, (&DecisionTree{}).PredictProba([][]float64{{1}}))
	assert.Equal(t, []float64{0.5}, (&GradientBoosting{}).PredictProba([][]float64{{1}}))
}

func TestCheckFeatures(t *testing.T) {
	t.Parallel()

	negative := &DecisionTree{Root: split(0, 0.5, leaf(0), split(-1, 0.5, leaf(0), leaf(1)))}
	tests := []struct {
		name    string
		model   interface{ checkFeatures(int) error }
		width   int
		wantErr bool
	}{
		{"empty tree", &DecisionTree{}, 1, false},
		{"in range", insultTree(), 65, false},
		{"past width", insultTree(), idiotBucket, true},
		{"negative", negative, 65, true},
		{"forest", &RandomForest{Ensemble{Trees: []*DecisionTree{insultTree(), {Root: split(moronBucket, 0.5, leaf(0), leaf(1))}}}}, 65, false},
		{"forest with negative tree", &Bagging{Ensemble{Trees: []*DecisionTree{insultTree(), negative}}}, 65, true},
		{"boosting", &GradientBoosting{Trees: []Stump{{Feature: 3}, {Feature: 70}}}, 71, false},
		{"boosting past width", &GradientBoosting{Trees: []Stump{{Feature: 3}, {Feature: 70}}}, 70, true},
		{"boosting negative", &GradientBoosting{Trees: []Stump{{Feature: -2}}}, 70, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.model.checkFeatures(tt.width)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrFeatureRange)
				return
			}
			require.NoError(t, err)
		})
	}
}

func insultModel(id string) *TextModel {
	return &TextModel{ID: id, Vectorizer: features.NewVectorizer(64), Model: insultTree()}
}

func TestTextModelSaveLoad(t *testing.T) {
	t.Parallel()

	m := insultModel("dt_seed1")
	path := filepath.Join(t.TempDir(), "dt_seed1.gob")
	require.NoError(t, SaveTextModel(path, m))

	back, err := LoadTextModel(path)
	require.NoError(t, err)
	assert.Equal(t, "dt_seed1", back.Name())

	texts := []string{"idiot", "weather"}
	want, err := m.Predict(context.Background(), texts)
	require.NoError(t, err)
	got, err := back.Predict(context.Background(), texts)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, []float64{0.9, 0.1}, got)
}

func TestLoadTextModelRejectsWideTrees(t *testing.T) {
	t.Parallel()

	m := &TextModel{ID: "wide", Vectorizer: features.NewVectorizer(8), Model: insultTree()}
	path := filepath.Join(t.TempDir(), "wide.gob")
	require.NoError(t, SaveTextModel(path, m))
	_, err := LoadTextModel(path)
	require.ErrorIs(t, err, ErrFeatureRange)
}

func TestLoadTextModelRejectsNegativeFeature(t *testing.T) {
	t.Parallel()

	m := &TextModel{ID: "neg", Vectorizer: features.NewVectorizer(64), Model: &DecisionTree{Root: split(-1, 0.5, leaf(0.1), leaf(0.9))}}
	path := filepath.Join(t.TempDir(), "neg.gob")
	require.NoError(t, SaveTextModel(path, m))
	_, err := LoadTextModel(path)
	require.ErrorIs(t, err, ErrFeatureRange)
}

func TestTextModelPredictsInBatches(t *testing.T) {
	t.Parallel()

	texts := make([]string, predictBatch*2+3)
	for i := range texts {
		texts[i] = "nice weather"
	}
	texts[predictBatch+1] = "you idiot"
	got, err := insultModel("batched").Predict(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, got, len(texts))
	assert.Equal(t, 0.9, got[predictBatch+1])
	assert.Equal(t, 0.1, got[len(got)-1])
}

func TestTextModelPredictHonorsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := insultModel("x").Predict(ctx, []string{"a"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestLexicon(t *testing.T) {
	t.Parallel()

	l := NewLexicon("lex", nil)
	got, err := l.Predict(context.Background(), []string{
		"Being gay is wonderful.",
		"You IDIOT",
		"idiot idiot",
		"kill murder idiot moron stupid",
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.05, got[0], 1e-12)
	assert.InDelta(t, 0.40, got[1], 1e-12)
	assert.InDelta(t, 0.40, got[2], 1e-12, "repeated terms count once")
	assert.InDelta(t, 0.95, got[3], 1e-12)
}

func TestCommand(t *testing.T) {
	t.Parallel()

	c := &Command{ID: "len", Path: "sh", Args: []string{"-c", `while IFS= read -r l; do echo 0.25; done`}}
	got, err := c.Predict(context.Background(), []string{"a", "multi\nline", "c"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.25, 0.25}, got)

	short := &Command{ID: "short", Path: "sh", Args: []string{"-c", "cat >/dev/null; echo 0.5"}}
	_, err = short.Predict(context.Background(), []string{"a", "b"})
	require.ErrorIs(t, err, ErrScoreCount)

	bad := &Command{ID: "bad", Path: "sh", Args: []string{"-c", "cat >/dev/null; echo nope"}}
	_, err = bad.Predict(context.Background(), []string{"a"})
	require.Error(t, err)

	fail := &Command{ID: "fail", Path: "sh", Args: []string{"-c", "exit 3"}}
	_, err = fail.Predict(context.Background(), []string{"a"})
	require.Error(t, err)
}

func TestLoadFamilyAndManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, SaveTextModel(filepath.Join(dir, "dt_seed1.gob"), insultModel("ignored")))
	specs := []Spec{
		{Name: "dt_seed1", Kind: KindGob, Path: "dt_seed1.gob"},
		{Name: "lexicon", Kind: KindLexicon},
		{Name: "ext", Kind: KindCommand, Command: []string{"sh", "-c", "cat"}},
	}
	require.NoError(t, WriteManifest(dir, specs))

	read, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dt_seed1.gob"), read[0].Path)

	family, err := LoadFamily(read)
	require.NoError(t, err)
	assert.Equal(t, []string{"dt_seed1", "lexicon", "ext"}, Names(family))
}

func TestLoadFamilyReportsAllErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadFamily([]Spec{
		{Name: "a", Kind: "onnx"},
		{Name: "b", Kind: KindGob, Path: filepath.Join(t.TempDir(), "missing.gob")},
		{Name: "c", Kind: KindLexicon},
		{Name: "c", Kind: KindLexicon},
		{Name: "d", Kind: KindCommand},
	})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnknownKind)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.ErrorIs(t, err, ErrDuplicateName)
	require.ErrorIs(t, err, errNoCommand)
}
