// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collection

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/museum-engine/pkg/types"
)

// QueryFile is the on-disk record of a search: the filter that ran and the
// results it produced. Saving a search to a file lets an operator review
// candidates before syncing them. Raw metadata is not written.
type QueryFile struct {
	Filter  types.SearchFilter    `yaml:"filter"`
	Results []types.ArtworkResult `yaml:"results"`
	Summary QuerySummary          `yaml:"summary"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total        int            `yaml:"total"`
	PerMuseum    map[string]int `yaml:"per_museum"`
	MuseumErrors []string       `yaml:"museum_errors,omitempty"`
	Timestamp    time.Time      `yaml:"timestamp"`
}

// WriteQueryFile saves filter and results to a YAML file, creating parent
// directories as needed.
func WriteQueryFile(path string, filter types.SearchFilter, out SearchOutput) error {
	qf := QueryFile{
		Filter:  filter,
		Results: out.Results,
		Summary: QuerySummary{
			Total:     len(out.Results),
			PerMuseum: out.CountByMuseum(),
			Timestamp: time.Now().UTC(),
		},
	}
	if qf.Filter.Limit <= 0 {
		qf.Filter.Limit = filter.EffectiveLimit()
	}
	for _, me := range out.MuseumErrors {
		qf.Summary.MuseumErrors = append(qf.Summary.MuseumErrors, me.Error())
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating query file directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// Replay re-runs the saved filter against the current caches and keeps the
// records the file lists, in file order. Rebuilt records carry their raw
// metadata, which query files do not store. missing lists the global ids the
// caches no longer return.
func (r *Registry) Replay(ctx context.Context, qf *QueryFile, progress Progress) (out SearchOutput, missing []string, err error) {
	fresh, err := r.Search(ctx, qf.Filter, progress)
	if err != nil {
		return SearchOutput{}, nil, err
	}

	byID := make(map[string]types.ArtworkResult, len(fresh.Results))
	for _, res := range fresh.Results {
		byID[res.GlobalID] = res
	}

	out = SearchOutput{Results: []types.ArtworkResult{}, MuseumErrors: fresh.MuseumErrors}
	for _, saved := range qf.Results {
		res, ok := byID[saved.GlobalID]
		if !ok {
			missing = append(missing, saved.GlobalID)
			continue
		}
		out.Results = append(out.Results, res)
	}
	return out, missing, nil
}
