// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noahfehr/gpu-patent-thesis/internal/catalog"
	"github.com/noahfehr/gpu-patent-thesis/internal/dataset"
	"github.com/noahfehr/gpu-patent-thesis/internal/parse"
	"github.com/noahfehr/gpu-patent-thesis/internal/rawstore"
	"github.com/noahfehr/gpu-patent-thesis/internal/runlog"
	"github.com/noahfehr/gpu-patent-thesis/pkg/types"
)

// samplePatents are served for every dataset query. Two carry GPU/HPC
// vocabulary, one does not.
var samplePatents = []string{
	`{"lens_id":"001-001","title":"GPU accelerator design","abstract":"","description":"","jurisdiction":"US"}`,
	`{"lens_id":"002-002","title":"Bus protocol","abstract":"","description":"","jurisdiction":"US"}`,
	`{"lens_id":"003-003","title":"Scheduler","abstract":"An HPC workload scheduler.","description":"","jurisdiction":"US"}`,
}

func patentServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"total":%d,"data":[%s]}`, len(samplePatents), strings.Join(samplePatents, ","))
	}))
}

func testPipeline(t *testing.T, serverURL string) (*Pipeline, string) {
	t.Helper()
	dir := t.TempDir()

	store, err := catalog.NewStore(filepath.Join(dir, "index"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	p := &Pipeline{
		Client: &http.Client{Timeout: 10 * time.Second},
		Token:  "test-token",
		Cfg: types.PipelineConfig{
			Fetch: types.FetchConfig{
				HTTPConfig: types.HTTPConfig{UserAgent: "patent-pipeline/test"},
				APIURL:     serverURL,
				PageSize:   100,
			},
			Store: types.StoreConfig{DataDir: dir},
		},
		Catalog: store,
		Now:     func() time.Time { return fixed },
		Out:     io.Discard,
	}
	return p, dir
}

func testDefs() dataset.File {
	return dataset.File{
		Datasets: []types.DatasetSpec{
			{
				Name:         "expansion",
				CPCCodes:     []string{"G06F15/8007", "G06F15/8053", "G06N3/06"},
				Jurisdiction: "US",
				MaxResults:   1000,
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

func TestRunDataset(t *testing.T) {
	ts := patentServer(t)
	defer ts.Close()

	p, dir := testPipeline(t, ts.URL)
	spec := testDefs().Datasets[0]

	result, err := p.RunDataset(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, "expansion", result.Dataset)
	assert.Equal(t, "20260801_120000", result.Timestamp)
	assert.Len(t, result.Rows, 3)

	// All three artifacts exist under the dataset's directories.
	assert.FileExists(t, result.RawPath)
	assert.FileExists(t, result.ParsedPath)
	assert.FileExists(t, result.LogPath)
	assert.Equal(t, rawstore.Path(dir, "expansion", "20260801_120000"), result.RawPath)

	// The per-dataset working tree is fully created.
	for _, sub := range []string{"raw", "parsed", "text_clean", "embeddings", "logs"} {
		assert.DirExists(t, filepath.Join(dir, "expansion", sub))
	}

	// The run log records the query and counts.
	entry, err := runlog.Read(result.LogPath)
	require.NoError(t, err)
	assert.Equal(t, 3, entry.ResultsCount)

	var q runlog.FetchQuery
	require.NoError(t, json.Unmarshal(entry.Query, &q))
	assert.Len(t, q.CPCCodes, 3)
	assert.Equal(t, "US", q.Jurisdiction)
}

func TestRunAllWithDerived(t *testing.T) {
	ts := patentServer(t)
	defer ts.Close()

	p, dir := testPipeline(t, ts.URL)
	require.NoError(t, p.RunAll(context.Background(), testDefs()))

	expansion, err := parse.ReadTable(parse.TablePath(dir, "expansion", "20260801_120000"))
	require.NoError(t, err)
	vocabRows, err := parse.ReadTable(parse.TablePath(dir, "expansionxvocab", "20260801_120000"))
	require.NoError(t, err)

	// Derived row count never exceeds the source row count.
	assert.LessOrEqual(t, len(vocabRows), len(expansion))
	require.Len(t, vocabRows, 2)

	// Every derived row comes from the source table.
	sourceIDs := make(map[string]bool)
	for _, row := range expansion {
		sourceIDs[row.LensID] = true
	}
	for _, row := range vocabRows {
		assert.True(t, sourceIDs[row.LensID], "row %s not in source", row.LensID)
	}

	// The derived raw artifact reuses fetched records, filtered to the
	// surviving ids.
	raw, err := rawstore.Load(rawstore.Path(dir, "expansionxvocab", "20260801_120000"))
	require.NoError(t, err)
	assert.Equal(t, 2, raw.Total)
	assert.Len(t, raw.Data, 2)

	// Both runs are cataloged.
	runs, err := p.Catalog.ListRuns(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	derivedRun, err := p.Catalog.ListRuns(context.Background(), "expansionxvocab", 0)
	require.NoError(t, err)
	require.Len(t, derivedRun, 1)
	assert.Equal(t, "expansion", derivedRun[0].Source)
	assert.Equal(t, []string{"gpu", "high-performance compute", "hpc"}, derivedRun[0].Keywords)
}

func TestRunAllDerivedBeforeSourceFails(t *testing.T) {
	ts := patentServer(t)
	defer ts.Close()

	p, _ := testPipeline(t, ts.URL)
	defs := testDefs()
	defs.Derived[0].Source = "core" // never fetched in this run

	err := p.RunAll(context.Background(), defs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not fetched in this run")
}

func TestRunDatasetFetchFailureLeavesNoArtifacts(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	p, dir := testPipeline(t, ts.URL)
	_, err := p.RunDataset(context.Background(), testDefs().Datasets[0])
	require.Error(t, err)

	// The stage aborted: no raw, parsed, or log artifacts were written.
	for _, sub := range []string{"raw", "parsed", "logs"} {
		entries, readErr := os.ReadDir(filepath.Join(dir, "expansion", sub))
		require.NoError(t, readErr)
		assert.Empty(t, entries)
	}
}

func TestRunDerivedEmptyResult(t *testing.T) {
	p, dir := testPipeline(t, "")

	src := &RunResult{
		Dataset:   "expansion",
		Timestamp: "20260801_120000",
		Rows:      []types.ParsedRow{{LensID: "002-002", Title: "Bus protocol"}},
		Raw: &types.RawDocument{
			Total: 1,
			Data:  []json.RawMessage{json.RawMessage(`{"lens_id":"002-002","title":"Bus protocol"}`)},
		},
	}

	result, err := p.RunDerived(context.Background(), testDefs().Derived[0], src)
	require.NoError(t, err)
	assert.Empty(t, result.Rows)

	raw, err := rawstore.Load(rawstore.Path(dir, "expansionxvocab", "20260801_120000"))
	require.NoError(t, err)
	assert.Equal(t, 0, raw.Total)
	assert.Empty(t, raw.Data)
}
