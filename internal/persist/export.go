// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/museum-engine/pkg/types"
)

// ExportEntry is one synced record as written to an export file. Raw source
// metadata stays in the store.
type ExportEntry struct {
	types.ArtworkResult `yaml:",inline"`

	LastSyncedAt string `json:"last_synced_at" yaml:"last_synced_at"`
	SyncRunID    string `json:"sync_run_id" yaml:"sync_run_id"`
}

// Export file names written under the export directory.
const (
	ExportYAMLFile = "export.yaml"
	ExportJSONFile = "export.json"
)

// Export writes every synced record of museumID (all museums when empty) to
// dir/export.yaml and dir/export.json and returns the number of entries.
func (s *Store) Export(ctx context.Context, museumID, dir string) (int, error) {
	records, err := s.List(ctx, museumID, 0)
	if err != nil {
		return 0, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(records))
	for i, r := range records {
		entries[i] = ExportEntry{
			ArtworkResult: r.ArtworkResult,
			LastSyncedAt:  r.LastSyncedAt.UTC().Format(time.RFC3339),
			SyncRunID:     r.SyncRunID,
		}
		entries[i].RawMetadata = nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating export directory: %w", err)
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return 0, fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ExportYAMLFile), data, 0o644); err != nil {
		return 0, err
	}

	data, err = json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshaling JSON: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ExportJSONFile), data, 0o644); err != nil {
		return 0, err
	}
	return len(entries), nil
}
