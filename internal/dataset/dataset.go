// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset defines the named datasets the pipeline builds and loads
// overrides from a YAML definitions file. Dataset definitions are pure
// configuration data: a fetched dataset is a set of CPC codes plus a
// jurisdiction, a derived dataset is a source dataset plus keywords.
package dataset

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/noahfehr/gpu-patent-thesis/pkg/types"
)

// DefaultMaxResults caps fetched records per dataset when a definition
// does not set its own limit.
const DefaultMaxResults = 1000

// File holds a full set of dataset definitions: the fetched datasets and
// the derived (keyword-filtered) datasets built from them.
type File struct {
	Datasets []types.DatasetSpec `yaml:"datasets"`
	Derived  []types.DerivedSpec `yaml:"derived"`
}

// Default returns the built-in dataset definitions: the core dataset
// (parallel processing, multiprocessing, cache memory, and bus
// architecture CPC groups), the expansion dataset (multiprocessor systems
// and neural networks), and the expansionxvocab dataset (expansion
// filtered by GPU/HPC vocabulary).
func Default() File {
	return File{
		Datasets: []types.DatasetSpec{
			{
				Name: "core",
				CPCCodes: []string{
					"G06F9/3887", "G06F9/3888", "G06F9/38885",
					"G06F9/3009",
					"G06F12/0842", "G06F12/0844",
					"G06F13/42", "G06F13/14", "G06F13/16",
				},
				Jurisdiction: "US",
				MaxResults:   DefaultMaxResults,
			},
			{
				Name: "expansion",
				CPCCodes: []string{
					"G06F15/8007", "G06F15/8053",
					"G06N3/06",
				},
				Jurisdiction: "US",
				MaxResults:   DefaultMaxResults,
			},
		},
		Derived: []types.DerivedSpec{
			{
				Name:     "expansionxvocab",
				Source:   "expansion",
				Keywords: []string{"gpu", "high-performance compute", "hpc"},
			},
		},
	}
}

// Load reads dataset definitions from a YAML file and validates them.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading dataset file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parsing dataset file %s: %w", path, err)
	}
	for i := range f.Datasets {
		if f.Datasets[i].MaxResults == 0 {
			f.Datasets[i].MaxResults = DefaultMaxResults
		}
	}
	if err := f.Validate(); err != nil {
		return File{}, fmt.Errorf("invalid dataset file %s: %w", path, err)
	}
	return f, nil
}

// Validate checks every definition: fetched datasets need a name, at least
// one CPC code, and a jurisdiction; derived datasets need a name, at least
// one keyword, and a source that names a fetched dataset in the same file.
// Names must be unique across both kinds.
func (f File) Validate() error {
	seen := make(map[string]bool)
	for _, d := range f.Datasets {
		if d.Name == "" {
			return fmt.Errorf("dataset with empty name")
		}
		if seen[d.Name] {
			return fmt.Errorf("duplicate dataset name %q", d.Name)
		}
		seen[d.Name] = true
		if len(d.CPCCodes) == 0 {
			return fmt.Errorf("dataset %q has no CPC codes", d.Name)
		}
		if d.Jurisdiction == "" {
			return fmt.Errorf("dataset %q has no jurisdiction", d.Name)
		}
		if d.MaxResults < 0 {
			return fmt.Errorf("dataset %q has negative max_results", d.Name)
		}
	}
	for _, d := range f.Derived {
		if d.Name == "" {
			return fmt.Errorf("derived dataset with empty name")
		}
		if seen[d.Name] {
			return fmt.Errorf("duplicate dataset name %q", d.Name)
		}
		seen[d.Name] = true
		if d.Source == "" {
			return fmt.Errorf("derived dataset %q has no source", d.Name)
		}
		if _, ok := f.Find(d.Source); !ok {
			return fmt.Errorf("derived dataset %q names unknown source %q", d.Name, d.Source)
		}
		if len(d.Keywords) == 0 {
			return fmt.Errorf("derived dataset %q has no keywords", d.Name)
		}
	}
	return nil
}

// Find returns the fetched dataset with the given name.
func (f File) Find(name string) (types.DatasetSpec, bool) {
	for _, d := range f.Datasets {
		if d.Name == name {
			return d, true
		}
	}
	return types.DatasetSpec{}, false
}

// FindDerived returns the derived dataset with the given name.
func (f File) FindDerived(name string) (types.DerivedSpec, bool) {
	for _, d := range f.Derived {
		if d.Name == name {
			return d, true
		}
	}
	return types.DerivedSpec{}, false
}
