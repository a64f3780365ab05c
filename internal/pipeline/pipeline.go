// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the dataset stages end to end: fetch raw records,
// persist them, parse to a table, derive filtered datasets, and log each
// stage. Stages run sequentially; each is a function from input artifact
// to output artifact with no partial-completion recovery.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/noahfehr/gpu-patent-thesis/internal/catalog"
	"github.com/noahfehr/gpu-patent-thesis/internal/dataset"
	"github.com/noahfehr/gpu-patent-thesis/internal/fetch"
	"github.com/noahfehr/gpu-patent-thesis/internal/parse"
	"github.com/noahfehr/gpu-patent-thesis/internal/rawstore"
	"github.com/noahfehr/gpu-patent-thesis/internal/runlog"
	"github.com/noahfehr/gpu-patent-thesis/internal/vocab"
	"github.com/noahfehr/gpu-patent-thesis/pkg/types"
)

// timestampFmt matches the artifact naming convention {dataset}_{timestamp}.
const timestampFmt = "20060102_150405"

// datasetSubdirs are created under each dataset directory before any write.
// text_clean and embeddings are populated by downstream tooling, not here.
var datasetSubdirs = []string{"raw", "parsed", "text_clean", "embeddings", "logs"}

// Pipeline holds everything a run needs. Now is replaceable so tests get
// stable timestamps.
type Pipeline struct {
	Client  *http.Client
	Token   string
	Cfg     types.PipelineConfig
	Catalog *catalog.Store
	Now     func() time.Time
	Out     io.Writer
}

// RunResult describes one completed dataset stage.
type RunResult struct {
	Dataset    string
	Timestamp  string
	Rows       []types.ParsedRow
	Raw        *types.RawDocument
	RawPath    string
	ParsedPath string
	LogPath    string
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// RunDataset fetches, stores, parses, and logs one dataset.
func (p *Pipeline) RunDataset(ctx context.Context, spec types.DatasetSpec) (*RunResult, error) {
	timestamp := p.now().Format(timestampFmt)
	if err := ensureDatasetDirs(p.Cfg.Store.DataDir, spec.Name); err != nil {
		return nil, err
	}

	fmt.Fprintf(p.Out, "dataset %s: %d CPC codes, jurisdiction %s\n",
		spec.Name, len(spec.CPCCodes), spec.Jurisdiction)

	doc, err := fetch.Fetch(ctx, p.Client, p.Token, spec, p.Cfg.Fetch, p.Out)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", spec.Name, err)
	}

	rawPath, err := rawstore.Save(doc, p.Cfg.Store.DataDir, spec.Name, timestamp)
	if err != nil {
		return nil, fmt.Errorf("storing raw %s: %w", spec.Name, err)
	}

	rows, err := parse.Document(doc, p.Out)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", spec.Name, err)
	}

	parsedPath, err := parse.WriteTable(rows, p.Cfg.Store.DataDir, spec.Name, timestamp)
	if err != nil {
		return nil, fmt.Errorf("writing table for %s: %w", spec.Name, err)
	}

	result := &RunResult{
		Dataset:    spec.Name,
		Timestamp:  timestamp,
		Rows:       rows,
		Raw:        doc,
		RawPath:    rawPath,
		ParsedPath: parsedPath,
	}

	query := runlog.FetchQuery{
		CPCCodes:     spec.CPCCodes,
		Jurisdiction: spec.Jurisdiction,
		MaxResults:   spec.MaxResults,
	}
	if err := p.finishRun(ctx, result, query, ""); err != nil {
		return nil, err
	}

	fmt.Fprintf(p.Out, "dataset %s: %d records fetched, %d rows parsed\n",
		spec.Name, len(doc.Data), len(rows))
	return result, nil
}

// RunDerived filters the source run's rows by the derived spec's keywords
// and persists the result as a new dataset: a raw artifact rebuilt from
// the already-fetched source records and a parsed table of the kept rows.
func (p *Pipeline) RunDerived(ctx context.Context, spec types.DerivedSpec, src *RunResult) (*RunResult, error) {
	timestamp := src.Timestamp
	if err := ensureDatasetDirs(p.Cfg.Store.DataDir, spec.Name); err != nil {
		return nil, err
	}

	fmt.Fprintf(p.Out, "dataset %s: filtering %d %s rows by %d keywords\n",
		spec.Name, len(src.Rows), spec.Source, len(spec.Keywords))

	rows := vocab.Filter(src.Rows, spec.Keywords)
	raw := vocab.FilterRaw(src.Raw, vocab.IDSet(rows))

	rawPath, err := rawstore.Save(raw, p.Cfg.Store.DataDir, spec.Name, timestamp)
	if err != nil {
		return nil, fmt.Errorf("storing raw %s: %w", spec.Name, err)
	}

	parsedPath, err := parse.WriteTable(rows, p.Cfg.Store.DataDir, spec.Name, timestamp)
	if err != nil {
		return nil, fmt.Errorf("writing table for %s: %w", spec.Name, err)
	}

	result := &RunResult{
		Dataset:    spec.Name,
		Timestamp:  timestamp,
		Rows:       rows,
		Raw:        raw,
		RawPath:    rawPath,
		ParsedPath: parsedPath,
	}

	query := runlog.DerivedQuery{Source: spec.Source, Keywords: spec.Keywords}
	if err := p.finishRun(ctx, result, query, spec.Source); err != nil {
		return nil, err
	}

	fmt.Fprintf(p.Out, "dataset %s: kept %d of %d rows\n",
		spec.Name, len(rows), len(src.Rows))
	return result, nil
}

// RunAll runs every fetched dataset and then every derived dataset, in
// definition order. It fails on the first stage error; completed stages
// keep their artifacts.
func (p *Pipeline) RunAll(ctx context.Context, defs dataset.File) error {
	results := make(map[string]*RunResult, len(defs.Datasets))
	for _, spec := range defs.Datasets {
		r, err := p.RunDataset(ctx, spec)
		if err != nil {
			return err
		}
		results[spec.Name] = r
	}

	for _, spec := range defs.Derived {
		src, ok := results[spec.Source]
		if !ok {
			return fmt.Errorf("derived dataset %s: source %q was not fetched in this run", spec.Name, spec.Source)
		}
		if _, err := p.RunDerived(ctx, spec, src); err != nil {
			return err
		}
	}
	return nil
}

// finishRun writes the run log and records the run in the catalog.
func (p *Pipeline) finishRun(ctx context.Context, r *RunResult, query any, source string) error {
	logPath, err := runlog.Write(p.Cfg.Store.DataDir, r.Dataset, r.Timestamp, query,
		len(r.Rows), map[string]string{"raw": r.RawPath, "parsed": r.ParsedPath})
	if err != nil {
		return fmt.Errorf("logging %s: %w", r.Dataset, err)
	}
	r.LogPath = logPath

	if p.Catalog == nil {
		return nil
	}
	run := catalog.Run{
		Dataset:      r.Dataset,
		Timestamp:    r.Timestamp,
		ResultsCount: len(r.Rows),
		RawPath:      r.RawPath,
		ParsedPath:   r.ParsedPath,
		LogPath:      logPath,
		Source:       source,
	}
	if dq, ok := query.(runlog.DerivedQuery); ok {
		run.Keywords = dq.Keywords
	}
	if err := p.Catalog.RecordRun(ctx, run); err != nil {
		return fmt.Errorf("cataloging %s: %w", r.Dataset, err)
	}
	return nil
}

// ensureDatasetDirs creates the per-dataset working directories.
func ensureDatasetDirs(dataDir, name string) error {
	for _, sub := range datasetSubdirs {
		if err := os.MkdirAll(filepath.Join(dataDir, name, sub), 0o755); err != nil {
			return fmt.Errorf("creating directory %s/%s: %w", name, sub, err)
		}
	}
	return nil
}
