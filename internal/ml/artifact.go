// Package ml holds the fitted classification artifact and the pure inference
// stages that run against it: text normalization, TF-IDF vectorization and
// random-forest prediction.
//
// The artifact is loaded once at process start and never mutated afterwards,
// so it is safe for unbounded concurrent reads without locking. There is no
// online learning; retraining produces new blobs that replace the old ones on
// disk before the next restart.
package ml

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// Blob file names inside the model directory.
const (
	VectorizerFile = "vectorizer.gob"
	ForestFile     = "forest.gob"
	LabelsFile     = "labels.gob"
)

// Artifact bundles the three fitted components: vectorizer vocabulary and
// IDF weights, forest parameters, and the class-index to label table.
type Artifact struct {
	Vectorizer *Vectorizer
	Forest     *Forest
	Labels     []string
}

// Load reads the three blobs from dir and validates that their dimensions
// agree. Any failure means the artifact as a whole is unusable.
func Load(dir string) (*Artifact, error) {
	var v Vectorizer
	if err := readGob(filepath.Join(dir, VectorizerFile), &v); err != nil {
		return nil, fmt.Errorf("load vectorizer: %w", err)
	}
	var f Forest
	if err := readGob(filepath.Join(dir, ForestFile), &f); err != nil {
		return nil, fmt.Errorf("load forest: %w", err)
	}
	var labels []string
	if err := readGob(filepath.Join(dir, LabelsFile), &labels); err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}

	a := &Artifact{Vectorizer: &v, Forest: &f, Labels: labels}
	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("artifact: %w", err)
	}
	return a, nil
}

// Save writes the artifact blobs into dir. Used by the packaging tooling and
// by tests to build fixture artifacts.
func (a *Artifact) Save(dir string) error {
	if err := a.validate(); err != nil {
		return fmt.Errorf("artifact: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeGob(filepath.Join(dir, VectorizerFile), a.Vectorizer); err != nil {
		return fmt.Errorf("save vectorizer: %w", err)
	}
	if err := writeGob(filepath.Join(dir, ForestFile), a.Forest); err != nil {
		return fmt.Errorf("save forest: %w", err)
	}
	if err := writeGob(filepath.Join(dir, LabelsFile), a.Labels); err != nil {
		return fmt.Errorf("save labels: %w", err)
	}
	return nil
}

func (a *Artifact) validate() error {
	if a.Vectorizer == nil || a.Forest == nil {
		return fmt.Errorf("missing component")
	}
	if err := a.Vectorizer.validate(); err != nil {
		return err
	}
	if err := a.Forest.validate(a.Vectorizer.Dimension()); err != nil {
		return err
	}
	if len(a.Labels) != a.Forest.NumClasses {
		return fmt.Errorf("label table has %d entries, forest has %d classes", len(a.Labels), a.Forest.NumClasses)
	}
	return nil
}

func readGob(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewDecoder(f).Decode(out)
}

func writeGob(path string, in any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(in)
}
