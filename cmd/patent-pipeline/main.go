// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the patent-pipeline CLI. The
// pipeline fetches patent records from lens.org by CPC classification
// code, stores raw responses, parses them into parquet tables, derives
// keyword-filtered datasets, and logs every stage.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/noahfehr/gpu-patent-thesis/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the patent-pipeline CLI.
var rootCmd = &cobra.Command{
	Use:   "patent-pipeline",
	Short: "GPU patent dataset collection pipeline",
	Long: `patent-pipeline builds the core, expansion, and expansionxvocab patent
datasets from the lens.org patent search API. Each dataset run produces a
compressed raw artifact, a parsed parquet table, and a structured run log;
derived datasets are filtered from already-fetched records without new API
calls.

Each stage is a subcommand: fetch, parse, and filter. The run command
executes all stages for all configured datasets; runs queries the catalog
of past runs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./patent-pipeline.yaml or ~/.config/patent-pipeline/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("patent-pipeline")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "patent-pipeline"))
		}
	}

	viper.SetEnvPrefix("PATENT_PIPELINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
