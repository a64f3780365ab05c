// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse maps raw lens.org patent records to the normalized row
// schema and reads and writes the parquet tables built from them.
package parse

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/noahfehr/gpu-patent-thesis/pkg/types"
)

// SchemaError reports a record missing the required lens_id identifier.
// The record is skipped; parsing fails only when every record fails.
type SchemaError struct {
	// Index is the record's position in the raw document.
	Index  int
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("record %d: %s", e.Index, e.Reason)
}

// lensPatent mirrors the fields requested from the lens.org API. All
// fields except lens_id are optional.
type lensPatent struct {
	LensID        string          `json:"lens_id"`
	Title         string          `json:"title"`
	Abstract      string          `json:"abstract"`
	Description   string          `json:"description"`
	DatePublished string          `json:"date_published"`
	Jurisdiction  string          `json:"jurisdiction"`
	Applicants    []lensParty     `json:"applicants"`
	Inventors     []lensParty     `json:"inventors"`
	Claims        []lensClaim     `json:"claims"`
	CPC           []lensCPC       `json:"classification_cpc"`
	Biblio        json.RawMessage `json:"biblio"`
}

type lensClaim struct {
	ClaimText string `json:"claim_text"`
}

type lensCPC struct {
	ClassificationID string `json:"classification_id"`
}

// lensParty tolerates both shapes the API uses for applicants and
// inventors: a plain string, or an object carrying extracted_name.value.
type lensParty struct {
	name string
}

func (p *lensParty) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.name = s
		return nil
	}
	var obj struct {
		ExtractedName struct {
			Value string `json:"value"`
		} `json:"extracted_name"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.ExtractedName.Value != "" {
		p.name = obj.ExtractedName.Value
	} else {
		p.name = obj.Name
	}
	return nil
}

// Record parses one raw record into a ParsedRow. Missing optional fields
// stay zero-valued; a missing lens_id returns a *SchemaError.
func Record(raw json.RawMessage, index int) (types.ParsedRow, error) {
	var p lensPatent
	if err := json.Unmarshal(raw, &p); err != nil {
		return types.ParsedRow{}, &SchemaError{Index: index, Reason: fmt.Sprintf("malformed record: %v", err)}
	}
	if p.LensID == "" {
		return types.ParsedRow{}, &SchemaError{Index: index, Reason: "missing lens_id"}
	}

	row := types.ParsedRow{
		LensID:        p.LensID,
		Title:         p.Title,
		Abstract:      p.Abstract,
		Description:   p.Description,
		DatePublished: p.DatePublished,
		Jurisdiction:  p.Jurisdiction,
		ClaimsCount:   int64(len(p.Claims)),
	}
	for _, a := range p.Applicants {
		if a.name != "" {
			row.Applicants = append(row.Applicants, a.name)
		}
	}
	for _, inv := range p.Inventors {
		if inv.name != "" {
			row.Inventors = append(row.Inventors, inv.name)
		}
	}
	for _, c := range p.CPC {
		if c.ClassificationID != "" {
			row.CPCCodes = append(row.CPCCodes, c.ClassificationID)
		}
	}
	if len(p.Claims) > 0 {
		row.FirstClaim = p.Claims[0].ClaimText
	}
	return row, nil
}

// Document parses every record in doc. Records failing schema validation
// are skipped and reported to w; the error is non-nil only when the
// document has records and all of them fail.
func Document(doc *types.RawDocument, w io.Writer) ([]types.ParsedRow, error) {
	var rows []types.ParsedRow
	var firstErr error
	skipped := 0

	for i, raw := range doc.Data {
		row, err := Record(raw, i)
		if err != nil {
			fmt.Fprintf(w, "  warning: skipping %v\n", err)
			if firstErr == nil {
				firstErr = err
			}
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	if len(doc.Data) > 0 && len(rows) == 0 {
		return nil, fmt.Errorf("all %d records failed schema validation: %w", skipped, firstErr)
	}
	return rows, nil
}
