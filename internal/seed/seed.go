// Package seed loads the fixed set of assets a review session starts from.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yangwenmai/bis/internal/model"
)

//go:embed default.yaml
var defaultSeed []byte

// File is the on-disk seed format.
type File struct {
	Assets []Record `yaml:"assets"`
}

// Record is one seed entry. Status and action_timestamp are accepted so that
// exported sessions can be fed back in, but are ignored.
type Record struct {
	model.Asset     `yaml:",inline"`
	Status          string `yaml:"status,omitempty"`
	ActionTimestamp string `yaml:"action_timestamp,omitempty"`
}

// Default returns the built-in seed set.
func Default() []model.Asset {
	assets, err := Parse(bytes.NewReader(defaultSeed))
	if err != nil {
		panic("seed: invalid built-in seed: " + err.Error())
	}
	return assets
}

// Load reads and validates the seed file at path. An empty path yields Default().
func Load(path string) ([]model.Asset, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()

	assets, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return assets, nil
}

// Parse decodes a YAML seed document and validates it. Every asset is
// returned Pending; unknown fields are rejected.
func Parse(r io.Reader) ([]model.Asset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	assets := make([]model.Asset, len(f.Assets))
	for i, rec := range f.Assets {
		a := rec.Asset
		a.Status = model.StatusPending
		a.ActionTimestamp = nil
		if a.Issues == nil {
			a.Issues = []string{}
		}
		assets[i] = a
	}
	if err := model.ValidateSeed(assets); err != nil {
		return nil, err
	}
	return assets, nil
}
