package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "patent-pipeline/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIURL overrides the lens.org patent search endpoint. Empty uses
	// the production endpoint.
	APIURL string `json:"api_url,omitempty" yaml:"api_url,omitempty"`

	// PageSize is the number of records requested per API page (default 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxRetries is the number of retry attempts on HTTP 429 before the
	// rate limit is surfaced to the caller (default 0: no retries).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// StoreConfig holds settings for artifact storage.
type StoreConfig struct {
	// DataDir is the base directory for datasets. Each dataset gets
	// raw/, parsed/, text_clean/, embeddings/, and logs/ subdirectories.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// CatalogConfig holds settings for the run catalog.
type CatalogConfig struct {
	// IndexDir is the directory holding the catalog database
	// (default: {data_dir}/index).
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// MaxResults is the default maximum number of listed runs (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
}
