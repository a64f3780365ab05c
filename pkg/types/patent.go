// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the patent pipeline:
// dataset definitions, raw API documents, and the normalized row schema.
package types

import (
	"encoding/json"
	"time"
)

// DatasetSpec defines a fetched dataset: a named set of CPC classification
// codes combined disjunctively, constrained to one jurisdiction. Specs are
// pure configuration data, fixed before a run starts.
type DatasetSpec struct {
	// Name identifies the dataset and prefixes its artifact files.
	Name string `json:"name" yaml:"name"`

	// CPCCodes lists the CPC classification codes, in order. A patent
	// matches when it carries any one of them.
	CPCCodes []string `json:"cpc_codes" yaml:"cpc_codes"`

	// Jurisdiction constrains results to one country/region (e.g. "US").
	Jurisdiction string `json:"jurisdiction" yaml:"jurisdiction"`

	// MaxResults caps the number of records fetched (default 1000).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// DerivedSpec defines a dataset produced by keyword-filtering another
// dataset's parsed rows. No API calls are made for a derived dataset; its
// raw artifact is rebuilt from the source dataset's already-fetched records.
type DerivedSpec struct {
	// Name identifies the derived dataset.
	Name string `json:"name" yaml:"name"`

	// Source names the fetched dataset whose rows are filtered.
	Source string `json:"source" yaml:"source"`

	// Keywords are matched case-insensitively against each row's
	// title, abstract, and description. Any match keeps the row.
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// RawDocument is the persisted form of an API response: the concatenation
// of all fetched pages plus the fetch timestamp. Written once by the raw
// store and never mutated.
type RawDocument struct {
	// Total is the number of matching records reported by the API.
	Total int `json:"total"`

	// FetchedAt records when the fetch completed.
	FetchedAt time.Time `json:"fetched_at,omitempty"`

	// Data holds the raw patent records exactly as the API returned them.
	Data []json.RawMessage `json:"data"`
}

// ParsedRow is the normalized form of one raw patent record. Derivation is
// deterministic and one-to-one; missing optional fields stay zero-valued.
type ParsedRow struct {
	// LensID is the lens.org record identifier, unique within a dataset.
	LensID string `parquet:"lens_id" json:"lens_id"`

	// Title is the patent title.
	Title string `parquet:"title" json:"title"`

	// Abstract is the patent abstract.
	Abstract string `parquet:"abstract" json:"abstract"`

	// Description is the full-text description.
	Description string `parquet:"description" json:"description"`

	// DatePublished is the publication date as returned by the API.
	DatePublished string `parquet:"date_published" json:"date_published"`

	// Jurisdiction is the country/region of the record.
	Jurisdiction string `parquet:"jurisdiction" json:"jurisdiction"`

	// Applicants lists applicant names in source order.
	Applicants []string `parquet:"applicants,list" json:"applicants"`

	// Inventors lists inventor names in source order.
	Inventors []string `parquet:"inventors,list" json:"inventors"`

	// CPCCodes lists the CPC classification identifiers on the record.
	CPCCodes []string `parquet:"cpc_codes,list" json:"cpc_codes"`

	// ClaimsCount is the number of claims on the record.
	ClaimsCount int64 `parquet:"claims_count" json:"claims_count"`

	// FirstClaim is the text of the first claim, when present.
	FirstClaim string `parquet:"first_claim" json:"first_claim"`
}
