// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noahfehr/gpu-patent-thesis/internal/parse"
	"github.com/noahfehr/gpu-patent-thesis/internal/rawstore"
	"github.com/noahfehr/gpu-patent-thesis/internal/runlog"
)

var parseCmd = &cobra.Command{
	Use:   "parse [raw-file...]",
	Short: "Parse raw artifacts into parquet tables",
	Long: `Parse reads one or more raw {dataset}_{timestamp}.json.gz artifacts,
normalizes each record into the fixed row schema, and writes a parquet
table next to the source under the dataset's parsed/ directory. Records
missing the lens_id identifier are skipped with a warning; parsing fails
only when every record is invalid.`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("data-dir", "", "base directory for dataset artifacts")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more raw artifact paths")
	}
	cfg := pipelineConfig(cmd)

	for _, path := range args {
		name, timestamp, err := rawstore.SplitName(path)
		if err != nil {
			return err
		}

		doc, err := rawstore.Load(path)
		if err != nil {
			return err
		}

		rows, err := parse.Document(doc, os.Stdout)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		parsedPath, err := parse.WriteTable(rows, cfg.Store.DataDir, name, timestamp)
		if err != nil {
			return err
		}

		query := map[string]string{"source_raw": path}
		if _, err := runlog.Write(cfg.Store.DataDir, name, timestamp, query,
			len(rows), map[string]string{"raw": path, "parsed": parsedPath}); err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "parsed %s: %d rows -> %s\n", path, len(rows), parsedPath)
	}
	return nil
}
