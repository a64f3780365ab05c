// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runlog

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()

	query := FetchQuery{
		CPCCodes:     []string{"G06F9/3887", "G06F13/42"},
		Jurisdiction: "US",
		MaxResults:   1000,
	}
	files := map[string]string{
		"raw":    "data/core/raw/core_20260801_120000.json.gz",
		"parsed": "data/core/parsed/core_20260801_120000.parquet",
	}

	path, err := Write(dir, "core", "20260801_120000", query, 42, files)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "core", "logs", "core_20260801_120000.log.json"), path)

	entry, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "core", entry.Dataset)
	assert.Equal(t, "20260801_120000", entry.Timestamp)
	assert.Equal(t, 42, entry.ResultsCount)
	assert.Equal(t, files, entry.Files)

	var gotQuery FetchQuery
	require.NoError(t, json.Unmarshal(entry.Query, &gotQuery))
	assert.Equal(t, query, gotQuery)
}

func TestWriteDerivedQuery(t *testing.T) {
	dir := t.TempDir()

	query := DerivedQuery{Source: "expansion", Keywords: []string{"gpu", "hpc"}}
	path, err := Write(dir, "expansionxvocab", "20260801_120000", query, 7, nil)
	require.NoError(t, err)

	entry, err := Read(path)
	require.NoError(t, err)

	var gotQuery DerivedQuery
	require.NoError(t, json.Unmarshal(entry.Query, &gotQuery))
	assert.Equal(t, "expansion", gotQuery.Source)
	assert.Equal(t, []string{"gpu", "hpc"}, gotQuery.Keywords)
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.log.json"))
	require.Error(t, err)
}
