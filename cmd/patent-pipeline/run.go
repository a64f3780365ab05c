// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/noahfehr/gpu-patent-thesis/internal/catalog"
	"github.com/noahfehr/gpu-patent-thesis/internal/pipeline"
	"github.com/noahfehr/gpu-patent-thesis/internal/secrets"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run all pipeline stages for all configured datasets",
	Long: `Run fetches every configured dataset from lens.org, stores the raw
responses, parses them into parquet tables, derives the keyword-filtered
datasets, and logs each stage. Fetched datasets run first so derived
datasets can reuse their records.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	runCmd.Flags().Int("page-size", 0, "records per API page (default 100)")
	runCmd.Flags().Int("max-retries", 0, "retries on HTTP 429 (default 0)")
	runCmd.Flags().String("data-dir", "", "base directory for dataset artifacts")
	runCmd.Flags().String("datasets", "", "dataset definitions YAML file (default: built-in datasets)")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	defs, err := loadDatasets(cmd)
	if err != nil {
		return err
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
	return p.RunAll(cmd.Context(), defs)
}
