// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/noahfehr/gpu-patent-thesis/internal/dataset"
	"github.com/noahfehr/gpu-patent-thesis/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultPageSize  = 100
	defaultUserAgent = "patent-pipeline/0.1"
	defaultDataDir   = "data/patents/v2_core_expansion"
)

// pipelineConfig assembles the stage configuration from flags with viper
// config values as fallback.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("fetch.timeout")
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}

	pageSize, _ := cmd.Flags().GetInt("page-size")
	if pageSize == 0 {
		pageSize = viper.GetInt("fetch.page_size")
	}
	if pageSize == 0 {
		pageSize = defaultPageSize
	}

	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	if maxRetries == 0 {
		maxRetries = viper.GetInt("fetch.max_retries")
	}

	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("store.data_dir")
	}
	if dataDir == "" {
		dataDir = defaultDataDir
	}

	return types.PipelineConfig{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: defaultUserAgent,
			},
			APIURL:     viper.GetString("fetch.api_url"),
			PageSize:   pageSize,
			MaxRetries: maxRetries,
		},
		Store: types.StoreConfig{DataDir: dataDir},
		Catalog: types.CatalogConfig{
			IndexDir:   filepath.Join(dataDir, "index"),
			MaxResults: viper.GetInt("catalog.max_results"),
		},
	}
}

// loadDatasets reads dataset definitions from the --datasets file when
// given, falling back to the built-in core/expansion/expansionxvocab set.
func loadDatasets(cmd *cobra.Command) (dataset.File, error) {
	path, _ := cmd.Flags().GetString("datasets")
	if path == "" {
		path = viper.GetString("datasets_file")
	}
	if path == "" {
		return dataset.Default(), nil
	}
	return dataset.Load(path)
}
