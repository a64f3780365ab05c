// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runlog appends one structured JSON record per pipeline stage
// invocation: the query that ran, the result count, and the artifact
// paths it produced.
package runlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const logsDir = "logs"

// Entry is the on-disk run record, written to
// {dataDir}/{dataset}/logs/{dataset}_{timestamp}.log.json.
type Entry struct {
	Timestamp    string            `json:"timestamp"`
	Dataset      string            `json:"dataset"`
	Query        json.RawMessage   `json:"query"`
	ResultsCount int               `json:"results_count"`
	Files        map[string]string `json:"files"`
}

// FetchQuery describes a fetched dataset's query for the log.
type FetchQuery struct {
	CPCCodes     []string `json:"cpc_codes"`
	Jurisdiction string   `json:"jurisdiction"`
	MaxResults   int      `json:"max_results"`
}

// DerivedQuery describes a derived dataset's filter for the log.
type DerivedQuery struct {
	Source   string   `json:"source"`
	Keywords []string `json:"keywords"`
}

// Path returns the log artifact path for a dataset and timestamp.
func Path(dataDir, dataset, timestamp string) string {
	return filepath.Join(dataDir, dataset, logsDir, fmt.Sprintf("%s_%s.log.json", dataset, timestamp))
}

// Write persists one run entry and returns its path. The query value is
// marshaled into the entry's Query field.
func Write(dataDir, dataset, timestamp string, query any, resultsCount int, files map[string]string) (string, error) {
	q, err := json.Marshal(query)
	if err != nil {
		return "", fmt.Errorf("marshaling query: %w", err)
	}
	entry := Entry{
		Timestamp:    timestamp,
		Dataset:      dataset,
		Query:        q,
		ResultsCount: resultsCount,
		Files:        files,
	}

	dest := Path(dataDir, dataset, timestamp)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("creating logs directory: %w", err)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling log entry: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("writing log entry: %w", err)
	}
	return dest, nil
}

// Read loads a run entry written by Write.
func Read(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading log entry: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parsing log entry %s: %w", path, err)
	}
	return &e, nil
}
