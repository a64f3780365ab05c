// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noahfehr/gpu-patent-thesis/internal/catalog"
	"github.com/noahfehr/gpu-patent-thesis/internal/parse"
	"github.com/noahfehr/gpu-patent-thesis/internal/pipeline"
	"github.com/noahfehr/gpu-patent-thesis/internal/rawstore"
)

var filterCmd = &cobra.Command{
	Use:   "filter [derived-dataset...]",
	Short: "Derive keyword-filtered datasets from fetched runs",
	Long: `Filter builds derived datasets from the latest cataloged run of their
source dataset. The source's parsed rows are filtered by the derived
dataset's keywords and its raw artifact is rebuilt from the source's
already-fetched records; no new API calls are made. With no arguments
every configured derived dataset runs.`,
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().String("data-dir", "", "base directory for dataset artifacts")
	filterCmd.Flags().String("datasets", "", "dataset definitions YAML file (default: built-in datasets)")

	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	defs, err := loadDatasets(cmd)
	if err != nil {
		return err
	}

	specs := defs.Derived
	if len(args) > 0 {
		specs = specs[:0:0]
		for _, name := range args {
			spec, ok := defs.FindDerived(name)
			if !ok {
				return fmt.Errorf("unknown derived dataset %q", name)
			}
			specs = append(specs, spec)
		}
	}

	store, err := catalog.NewStore(cfg.Catalog.IndexDir, cfg.Catalog.MaxResults)
	if err != nil {
		return err
	}
	defer store.Close()

	p := &pipeline.Pipeline{Cfg: cfg, Catalog: store, Out: os.Stdout}

	for _, spec := range specs {
		runs, err := store.ListRuns(cmd.Context(), spec.Source, 1)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			return fmt.Errorf("derived dataset %s: no cataloged run of source %q; run fetch first", spec.Name, spec.Source)
		}
		last := runs[0]

		raw, err := rawstore.Load(last.RawPath)
		if err != nil {
			return fmt.Errorf("loading source raw for %s: %w", spec.Name, err)
		}
		rows, err := parse.ReadTable(last.ParsedPath)
		if err != nil {
			return fmt.Errorf("loading source table for %s: %w", spec.Name, err)
		}

		src := &pipeline.RunResult{
			Dataset:    last.Dataset,
			Timestamp:  last.Timestamp,
			Rows:       rows,
			Raw:        raw,
			RawPath:    last.RawPath,
			ParsedPath: last.ParsedPath,
		}
		if _, err := p.RunDerived(cmd.Context(), spec, src); err != nil {
			return err
		}
	}
	return nil
}
