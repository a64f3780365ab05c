// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/noahfehr/gpu-patent-thesis/internal/catalog"
	"github.com/noahfehr/gpu-patent-thesis/internal/pipeline"
	"github.com/noahfehr/gpu-patent-thesis/internal/secrets"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [dataset...]",
	Short: "Fetch and parse one or more configured datasets",
	Long: `Fetch queries lens.org for the named datasets' CPC codes and
jurisdiction, pages through the results, stores the raw compressed
response, parses it into a parquet table, and logs the run. With no
arguments every configured fetched dataset runs.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Int("page-size", 0, "records per API page (default 100)")
	fetchCmd.Flags().Int("max-retries", 0, "retries on HTTP 429 (default 0)")
	fetchCmd.Flags().String("data-dir", "", "base directory for dataset artifacts")
	fetchCmd.Flags().String("datasets", "", "dataset definitions YAML file (default: built-in datasets)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	defs, err := loadDatasets(cmd)
	if err != nil {
		return err
	}

	specs := defs.Datasets
	if len(args) > 0 {
		specs = specs[:0:0]
		for _, name := range args {
			spec, ok := defs.Find(name)
			if !ok {
				return fmt.Errorf("unknown dataset %q", name)
			}
			specs = append(specs, spec)
		}
	}

	store, err := catalog.NewStore(cfg.Catalog.IndexDir, cfg.Catalog.MaxResults)
	if err != nil {
		return err
	}
	defer store.Close()

	p := &pipeline.Pipeline{
		Client:  &http.Client{Timeout: cfg.Fetch.Timeout},
		Token:   secrets.APIToken(loadedSecrets),
		Cfg:     cfg,
		Catalog: store,
		Out:     os.Stdout,
	}
	for _, spec := range specs {
		if _, err := p.RunDataset(cmd.Context(), spec); err != nil {
			return err
		}
	}
	return nil
}
