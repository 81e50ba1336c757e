// Package config holds the paths and tunables of the bias analysis and loads
// them from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"modelbias/internal/analysis"
	"modelbias/internal/data"
	"modelbias/internal/models"
	"modelbias/pkg/utils"
)

// Config is the analysis configuration. Parallelism 0 or 1 scores models
// sequentially.
type Config struct {
	RawPath       string          `yaml:"raw_path" toml:"raw_path" validate:"required"`
	ScoredPath    string          `yaml:"scored_path" toml:"scored_path" validate:"required,nefield=RawPath"`
	ModelDir      string          `yaml:"model_dir" toml:"model_dir"`
	TextColumn    string          `yaml:"text_column" toml:"text_column" validate:"required"`
	LabelColumn   string          `yaml:"label_column" toml:"label_column" validate:"required,nefield=TextColumn"`
	MinAUC        float64         `yaml:"min_auc" toml:"min_auc" validate:"gte=0,lt=1"`
	Bins          int             `yaml:"bins" toml:"bins" validate:"gte=1,lte=1000"`
	HistogramPath string          `yaml:"histogram_path" toml:"histogram_path"`
	Parallelism   int             `yaml:"parallelism" toml:"parallelism" validate:"gte=0"`
	Models        []models.Spec   `yaml:"models" toml:"models" validate:"dive"`
	Log           utils.LogConfig `yaml:"log" toml:"log"`
	Listen        string          `yaml:"listen" toml:"listen" validate:"required"`
	APIKey        string          `yaml:"api_key" toml:"api_key"`
}

func Default() Config {
	return Config{
		RawPath:       "data/bias_madlibs_89k.csv",
		ScoredPath:    "data/bias_madlibs_89k_scored.csv",
		ModelDir:      "models",
		TextColumn:    data.TextColumn,
		LabelColumn:   data.LabelColumn,
		MinAUC:        analysis.DefaultMinAUC,
		Bins:          analysis.DefaultBins,
		HistogramPath: "data/family_auc.png",
		Listen:        ":8080",
	}
}

// Load reads path over the defaults and validates the result. The decoder is
// chosen by file extension.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return cfg, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("%w: %s", ErrFormat, path)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// ModelSpecs returns the configured model family. Without explicit models it
// falls back to manifest.json in ModelDir; when that is absent too the
// family is empty.
func (c Config) ModelSpecs() ([]models.Spec, error) {
	if len(c.Models) > 0 {
		return c.Models, nil
	}
	if c.ModelDir == "" {
		return nil, nil
	}
	specs, err := models.ReadManifest(c.ModelDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return specs, err
}

// LoadOrDefault is Load, except that a missing file yields the defaults
// unless the caller named the file explicitly.
func LoadOrDefault(path string, explicit bool) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, ErrNotFound) && !explicit {
		return Default(), nil
	}
	return cfg, err
}
