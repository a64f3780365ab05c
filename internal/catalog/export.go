// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes the run history to indexDir/export.yaml, filtered the
// same way as ListRuns.
func (s *Store) ExportYAML(ctx context.Context, dataset string, limit int) error {
	runs, err := s.ListRuns(ctx, dataset, limit)
	if err != nil {
		return err
	}

	path := filepath.Join(s.indexDir, "export.yaml")
	data, err := yaml.Marshal(runs)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the run history to indexDir/export.json, filtered the
// same way as ListRuns.
func (s *Store) ExportJSON(ctx context.Context, dataset string, limit int) error {
	runs, err := s.ListRuns(ctx, dataset, limit)
	if err != nil {
		return err
	}

	path := filepath.Join(s.indexDir, "export.json")
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
