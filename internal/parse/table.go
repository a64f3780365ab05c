// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/noahfehr/gpu-patent-thesis/pkg/types"
)

const parsedDir = "parsed"

// TablePath returns the parsed artifact path for a dataset and timestamp:
// {dataDir}/{dataset}/parsed/{dataset}_{timestamp}.parquet.
func TablePath(dataDir, dataset, timestamp string) string {
	return filepath.Join(dataDir, dataset, parsedDir, fmt.Sprintf("%s_%s.parquet", dataset, timestamp))
}

// WriteTable writes rows to the dataset's parquet artifact and returns
// its path.
func WriteTable(rows []types.ParsedRow, dataDir, dataset, timestamp string) (string, error) {
	dest := TablePath(dataDir, dataset, timestamp)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("creating parsed directory: %w", err)
	}
	if err := parquet.WriteFile(dest, rows); err != nil {
		return "", fmt.Errorf("writing parquet table: %w", err)
	}
	return dest, nil
}

// ReadTable loads a parquet table written by WriteTable.
func ReadTable(path string) ([]types.ParsedRow, error) {
	rows, err := parquet.ReadFile[types.ParsedRow](path)
	if err != nil {
		return nil, fmt.Errorf("reading parquet table %s: %w", path, err)
	}
	return rows, nil
}
