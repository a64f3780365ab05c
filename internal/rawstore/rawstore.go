// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rawstore persists raw API response documents as gzip-compressed
// JSON, one file per dataset per run, named by dataset and timestamp.
// Written documents are never modified.
package rawstore

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/noahfehr/gpu-patent-thesis/pkg/types"
)

const rawDir = "raw"

// Path returns the raw artifact path for a dataset and timestamp:
// {dataDir}/{dataset}/raw/{dataset}_{timestamp}.json.gz.
func Path(dataDir, dataset, timestamp string) string {
	return filepath.Join(dataDir, dataset, rawDir, fmt.Sprintf("%s_%s.json.gz", dataset, timestamp))
}

// Save writes doc as indented, gzip-compressed JSON. The file is written
// to a temporary name and renamed on success so a failed write never
// leaves a truncated artifact. Returns the artifact path.
func Save(doc *types.RawDocument, dataDir, dataset, timestamp string) (string, error) {
	dest := Path(dataDir, dataset, timestamp)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("creating raw directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), ".raw-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	gz := gzip.NewWriter(tmpFile)
	enc := json.NewEncoder(gz)
	enc.SetIndent("", "  ")

	encErr := enc.Encode(doc)
	gzErr := gz.Close()
	closeErr := tmpFile.Close()
	for _, err := range []error{encErr, gzErr, closeErr} {
		if err != nil {
			os.Remove(tmpPath)
			return "", fmt.Errorf("writing raw artifact: %w", err)
		}
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return dest, nil
}

// SplitName extracts the dataset name and timestamp from a raw artifact
// path following the {dataset}_{timestamp}.json.gz convention. Dataset
// names may themselves contain underscores; the timestamp is always the
// final two underscore-separated segments.
func SplitName(path string) (dataset, timestamp string, err error) {
	base := strings.TrimSuffix(filepath.Base(path), ".json.gz")
	parts := strings.Split(base, "_")
	if len(parts) < 3 {
		return "", "", fmt.Errorf("artifact name %q does not match {dataset}_{timestamp}.json.gz", filepath.Base(path))
	}
	timestamp = strings.Join(parts[len(parts)-2:], "_")
	if _, perr := time.Parse("20060102_150405", timestamp); perr != nil {
		return "", "", fmt.Errorf("artifact name %q has invalid timestamp %q", filepath.Base(path), timestamp)
	}
	dataset = strings.Join(parts[:len(parts)-2], "_")
	return dataset, timestamp, nil
}

// Load reads a raw artifact written by Save.
func Load(path string) (*types.RawDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening raw artifact: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading gzip header of %s: %w", path, err)
	}
	defer gz.Close()

	var doc types.RawDocument
	if err := json.NewDecoder(gz).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing raw artifact %s: %w", path, err)
	}
	return &doc, nil
}
