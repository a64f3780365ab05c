// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vocab derives keyword-filtered datasets. A row survives when its
// title, abstract, or description contains any keyword, case-insensitively.
// Pure boolean membership: no ranking, no scoring.
package vocab

import (
	"encoding/json"
	"strings"

	"github.com/noahfehr/gpu-patent-thesis/pkg/types"
)

// Matches reports whether the row's concatenated title, abstract, and
// description contains any of the keywords, ignoring case.
func Matches(row types.ParsedRow, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	text := strings.ToLower(row.Title + " " + row.Abstract + " " + row.Description)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Filter returns the subset of rows matching any keyword, preserving
// source order. An empty keyword set yields an empty result.
func Filter(rows []types.ParsedRow, keywords []string) []types.ParsedRow {
	var kept []types.ParsedRow
	for _, row := range rows {
		if Matches(row, keywords) {
			kept = append(kept, row)
		}
	}
	return kept
}

// FilterRaw rebuilds a raw document containing only the source records
// whose lens_id appears in keep. The derived dataset's raw artifact reuses
// already-fetched records; no new API calls are made.
func FilterRaw(src *types.RawDocument, keep map[string]bool) *types.RawDocument {
	out := &types.RawDocument{FetchedAt: src.FetchedAt}
	for _, raw := range src.Data {
		var id struct {
			LensID string `json:"lens_id"`
		}
		if err := json.Unmarshal(raw, &id); err != nil {
			continue
		}
		if keep[id.LensID] {
			out.Data = append(out.Data, raw)
		}
	}
	out.Total = len(out.Data)
	return out
}

// IDSet returns the set of lens_ids present in rows.
func IDSet(rows []types.ParsedRow) map[string]bool {
	ids := make(map[string]bool, len(rows))
	for _, row := range rows {
		ids[row.LensID] = true
	}
	return ids
}
