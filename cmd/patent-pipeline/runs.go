// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/noahfehr/gpu-patent-thesis/internal/catalog"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List cataloged pipeline runs",
	Long: `Runs queries the run catalog: every recorded stage invocation with its
result count and artifact paths, newest first. The catalog can be exported
to YAML and JSON files under the index directory.`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().String("data-dir", "", "base directory for dataset artifacts")
	runsCmd.Flags().String("dataset", "", "filter by dataset name")
	runsCmd.Flags().Int("limit", 0, "maximum number of runs to list")
	runsCmd.Flags().Bool("json", false, "output runs as JSON")
	runsCmd.Flags().Bool("export", false, "export run history to YAML and JSON files")

	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	store, err := catalog.NewStore(cfg.Catalog.IndexDir, cfg.Catalog.MaxResults)
	if err != nil {
		return err
	}
	defer store.Close()

	dataset, _ := cmd.Flags().GetString("dataset")
	limit, _ := cmd.Flags().GetInt("limit")

	if export, _ := cmd.Flags().GetBool("export"); export {
		if err := store.ExportYAML(cmd.Context(), dataset, limit); err != nil {
			return err
		}
		return store.ExportJSON(cmd.Context(), dataset, limit)
	}

	runs, err := store.ListRuns(cmd.Context(), dataset, limit)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	catalog.FormatTable(runs, os.Stdout)
	return nil
}
