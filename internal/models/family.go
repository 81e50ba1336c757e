package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"go.uber.org/multierr"
)

const (
	KindGob     = "gob"
	KindLexicon = "lexicon"
	KindCommand = "command"

	ManifestFile = "manifest.json"
)

var ErrDuplicateName = errors.New("duplicate model name")

// Spec describes how to obtain one member of a model family.
type Spec struct {
	Name    string             `json:"name" yaml:"name" toml:"name" validate:"required"`
	Kind    string             `json:"kind" yaml:"kind" toml:"kind" validate:"required,oneof=gob lexicon command"`
	Path    string             `json:"path,omitempty" yaml:"path" toml:"path" validate:"required_if=Kind gob"`
	Command []string           `json:"command,omitempty" yaml:"command" toml:"command" validate:"required_if=Kind command"`
	Terms   map[string]float64 `json:"terms,omitempty" yaml:"terms" toml:"terms"`
}

func Load(spec Spec) (Scorer, error) {
	switch spec.Kind {
	case KindGob:
		m, err := LoadTextModel(spec.Path)
		if err != nil {
			return nil, err
		}
		if spec.Name != "" {
			m.ID = spec.Name
		}
		return m, nil
	case KindLexicon:
		return NewLexicon(spec.Name, spec.Terms), nil
	case KindCommand:
		if len(spec.Command) == 0 {
			return nil, fmt.Errorf("%s: %w", spec.Name, errNoCommand)
		}
		return &Command{ID: spec.Name, Path: spec.Command[0], Args: spec.Command[1:]}, nil
	default:
		return nil, fmt.Errorf("%s: %w: %q", spec.Name, ErrUnknownKind, spec.Kind)
	}
}

// LoadFamily loads every spec, reporting all failures together.
func LoadFamily(specs []Spec) ([]Scorer, error) {
	var errs error
	seen := make(map[string]bool, len(specs))
	family := make([]Scorer, 0, len(specs))
	for _, s := range specs {
		m, err := Load(s)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if seen[m.Name()] {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q", ErrDuplicateName, m.Name()))
			continue
		}
		seen[m.Name()] = true
		family = append(family, m)
	}
	if errs != nil {
		return nil, errs
	}
	return family, nil
}

// Names lists the identifiers of the family in order.
func Names(family []Scorer) []string {
	out := make([]string, len(family))
	for i, m := range family {
		out[i] = m.Name()
	}
	return out
}

// ReadManifest reads dir/manifest.json. Relative model paths are resolved
// against dir.
func ReadManifest(dir string) ([]Spec, error) {
	b, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}
	var specs []Spec
	if err := json.Unmarshal(b, &specs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ManifestFile, err)
	}
	for i := range specs {
		if specs[i].Path != "" && !filepath.IsAbs(specs[i].Path) {
			specs[i].Path = filepath.Join(dir, specs[i].Path)
		}
	}
	return specs, nil
}

func WriteManifest(dir string, specs []Spec) error {
	b, err := json.MarshalIndent(specs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, ManifestFile), b, 0o644)
}
