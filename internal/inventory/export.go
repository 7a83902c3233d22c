// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes every registered item to export.yaml next to the
// database and returns the file path.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	items, err := s.List(ctx)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}
	data, err := yaml.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport("export.yaml", data)
}

// ExportJSON writes every registered item to export.json next to the
// database and returns the file path.
func (s *Store) ExportJSON(ctx context.Context) (string, error) {
	items, err := s.List(ctx)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport("export.json", data)
}

func (s *Store) writeExport(name string, data []byte) (string, error) {
	path := filepath.Join(filepath.Dir(s.path), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
