// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch queries the lens.org patent search API for a dataset's
// CPC codes and jurisdiction, paging through results until exhaustion or
// the dataset's cap.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/noahfehr/gpu-patent-thesis/internal/httputil"
	"github.com/noahfehr/gpu-patent-thesis/pkg/types"
)

// lensSearchBase is the lens.org patent search endpoint. Declared as a var
// so tests can substitute an httptest server.
var lensSearchBase = "https://api.lens.org/patent/search"

// includeFields lists the record fields requested from the API. The parser
// depends on exactly these.
var includeFields = []string{
	"lens_id", "title", "abstract", "description", "claims",
	"date_published", "jurisdiction", "applicants", "inventors",
	"classification_cpc", "biblio",
}

const defaultPageSize = 100

// BuildQuery constructs the lens.org request body for one page: the
// dataset's CPC codes combined disjunctively (minimum_should_match 1),
// AND-ed with a single jurisdiction term.
func BuildQuery(spec types.DatasetSpec, from, size int) map[string]any {
	should := make([]any, 0, len(spec.CPCCodes))
	for _, code := range spec.CPCCodes {
		should = append(should, map[string]any{
			"term": map[string]any{"classification_cpc.classification_id": code},
		})
	}

	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{
					map[string]any{
						"bool": map[string]any{
							"should":               should,
							"minimum_should_match": 1,
						},
					},
					map[string]any{
						"term": map[string]any{"jurisdiction": spec.Jurisdiction},
					},
				},
			},
		},
		"from":    from,
		"size":    size,
		"include": includeFields,
	}
}

// searchResponse is the lens.org response envelope.
type searchResponse struct {
	Total int               `json:"total"`
	Data  []json.RawMessage `json:"data"`
}

// Fetch pages through the lens.org API for spec and returns all records
// as one RawDocument. The token is sent as a Bearer credential; a missing
// token fails before any request. Per-page progress is written to w.
//
// Transport failures surface as *NetworkError, credential rejections as
// *AuthError, and persistent throttling as *RateLimitError. No retry policy
// beyond the 429 backoff configured in cfg is applied.
func Fetch(ctx context.Context, client *http.Client, token string, spec types.DatasetSpec, cfg types.FetchConfig, w io.Writer) (*types.RawDocument, error) {
	if token == "" {
		return nil, &AuthError{Reason: "no API token configured (set LENS_API_TOKEN or .secrets/lens-api-token)"}
	}

	limit := spec.MaxResults
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	doc := &types.RawDocument{}
	for from := 0; ; {
		size := pageSize
		if limit > 0 && from+size > limit {
			size = limit - from
		}
		if size <= 0 {
			break
		}

		page, err := fetchPage(ctx, client, token, spec, cfg, from, size)
		if err != nil {
			return nil, err
		}

		doc.Total = page.Total
		doc.Data = append(doc.Data, page.Data...)
		fmt.Fprintf(w, "  fetched %d/%d records\n", len(doc.Data), page.Total)

		from += len(page.Data)
		// Exhausted: short page or all matching records retrieved.
		if len(page.Data) < size || from >= page.Total {
			break
		}
		if limit > 0 && from >= limit {
			break
		}
	}

	doc.FetchedAt = time.Now().UTC()
	return doc, nil
}

// fetchPage issues one POST for a single page of results.
func fetchPage(ctx context.Context, client *http.Client, token string, spec types.DatasetSpec, cfg types.FetchConfig, from, size int) (*searchResponse, error) {
	body, err := json.Marshal(BuildQuery(spec, from, size))
	if err != nil {
		return nil, fmt.Errorf("marshaling query: %w", err)
	}

	base := cfg.APIURL
	if base == "" {
		base = lensSearchBase
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{Status: resp.StatusCode, Reason: "lens.org rejected the API token"}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{RetryAfter: resp.Header.Get("Retry-After")}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("lens.org API returned HTTP %d", resp.StatusCode)
	}

	var page searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("parsing lens.org response: %w", err)
	}
	return &page, nil
}
