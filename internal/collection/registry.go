// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collection composes the museum adapters into one searchable
// collection. It fans a unified filter out to each selected adapter in
// registration order, reports progress around every adapter call, and
// orchestrates loads. It knows nothing about any museum's raw format.
package collection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/museum-engine/internal/logging"
	"github.com/pdiddy/museum-engine/pkg/types"
)

// Adapter is the capability set every museum implements: identify, load
// and search. Implementations own their raw format entirely.
type Adapter interface {
	ID() string
	Name() string
	DefaultSourcePath() string
	ProcessedCachePath() string
	LoadRawDataset(ctx context.Context, sourcePath string) (types.LoadResult, error)
	Search(ctx context.Context, filter types.SearchFilter) ([]types.ArtworkResult, error)
	DataSource(ctx context.Context, filter types.SearchFilter) (types.DataSource, error)
}

var (
	// ErrUnknownMuseum indicates a museum id that no adapter is registered for.
	ErrUnknownMuseum = errors.New("unknown museum")

	// ErrNoMuseums indicates a registry with no adapters.
	ErrNoMuseums = errors.New("no museums registered")
)

// MuseumError records a failure of one museum within a multi-museum run.
type MuseumError struct {
	MuseumID string
	Name     string
	Err      error
}

// Error implements the error interface.
func (e MuseumError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.MuseumID, e.Name, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e MuseumError) Unwrap() error {
	return e.Err
}

// Progress observes a search. Both calls are made synchronously on the
// searching goroutine, OnMuseumStart before and OnMuseumComplete after each
// adapter call. A failed adapter completes with zero results.
type Progress interface {
	OnMuseumStart(museumID, name string)
	OnMuseumComplete(museumID, name string, resultCount int)
}

// NopProgress ignores all progress events.
type NopProgress struct{}

func (NopProgress) OnMuseumStart(string, string)         {}
func (NopProgress) OnMuseumComplete(string, string, int) {}

// Registry holds an ordered, fixed list of adapters.
type Registry struct {
	adapters []Adapter
}

// NewRegistry returns a registry over adapters in the given order. A
// duplicate id panics, as the set is fixed at startup.
func NewRegistry(adapters ...Adapter) *Registry {
	seen := make(map[string]bool, len(adapters))
	for _, a := range adapters {
		if seen[a.ID()] {
			panic(fmt.Sprintf("collection: museum %q registered twice", a.ID()))
		}
		seen[a.ID()] = true
	}
	return &Registry{adapters: append([]Adapter(nil), adapters...)}
}

// Adapters returns the registered adapters in registration order.
func (r *Registry) Adapters() []Adapter {
	return append([]Adapter(nil), r.adapters...)
}

// IDs returns the registered museum ids in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.adapters))
	for i, a := range r.adapters {
		ids[i] = a.ID()
	}
	return ids
}

// Lookup returns the adapter registered under id.
func (r *Registry) Lookup(id string) (Adapter, bool) {
	for _, a := range r.adapters {
		if a.ID() == id {
			return a, true
		}
	}
	return nil, false
}

// selected returns the adapters named by ids, in registration order, or
// every adapter when ids is empty. Unknown ids are reported before any
// adapter runs.
func (r *Registry) selected(ids []string) ([]Adapter, error) {
	if len(r.adapters) == 0 {
		return nil, ErrNoMuseums
	}
	if len(ids) == 0 {
		return r.Adapters(), nil
	}

	want := make(map[string]bool, len(ids))
	var unknown []string
	for _, id := range ids {
		if _, ok := r.Lookup(id); !ok {
			unknown = append(unknown, id)
			continue
		}
		want[id] = true
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s (registered: %s)",
			ErrUnknownMuseum, strings.Join(unknown, ", "), strings.Join(r.IDs(), ", "))
	}

	var out []Adapter
	for _, a := range r.adapters {
		if want[a.ID()] {
			out = append(out, a)
		}
	}
	return out, nil
}

// SearchOutput holds the concatenated results and the museums that failed.
type SearchOutput struct {
	Results      []types.ArtworkResult
	MuseumErrors []MuseumError
}

// CountByMuseum returns the number of results per museum id.
func (o SearchOutput) CountByMuseum() map[string]int {
	counts := make(map[string]int)
	for _, r := range o.Results {
		counts[r.MuseumID]++
	}
	return counts
}

// Search runs filter against each selected museum sequentially, in
// registration order, and concatenates the results. The limit applies per
// museum. A museum whose search fails is skipped with a warning and
// recorded in MuseumErrors; the remaining museums still run.
func (r *Registry) Search(ctx context.Context, filter types.SearchFilter, progress Progress) (SearchOutput, error) {
	adapters, err := r.selected(filter.Museums)
	if err != nil {
		return SearchOutput{}, err
	}
	if progress == nil {
		progress = NopProgress{}
	}

	log := logging.FromContext(ctx)
	limit := filter.EffectiveLimit()
	out := SearchOutput{Results: []types.ArtworkResult{}}

	for _, a := range adapters {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		progress.OnMuseumStart(a.ID(), a.Name())
		results, err := a.Search(ctx, filter)
		if err != nil {
			log.Warn().Err(err).Str("museum_id", a.ID()).Msg("museum search failed, skipping")
			out.MuseumErrors = append(out.MuseumErrors, MuseumError{MuseumID: a.ID(), Name: a.Name(), Err: err})
			progress.OnMuseumComplete(a.ID(), a.Name(), 0)
			continue
		}
		if len(results) > limit {
			results = results[:limit]
		}
		out.Results = append(out.Results, results...)
		progress.OnMuseumComplete(a.ID(), a.Name(), len(results))
	}

	log.Debug().Int("results", len(out.Results)).Int("failed", len(out.MuseumErrors)).Msg("search complete")
	return out, nil
}

// DataSources reports, per selected museum, the data source a search with
// filter would consult and which of its facets that source cannot satisfy.
// Nothing is searched.
func (r *Registry) DataSources(ctx context.Context, filter types.SearchFilter) ([]types.DataSource, error) {
	adapters, err := r.selected(filter.Museums)
	if err != nil {
		return nil, err
	}
	sources := make([]types.DataSource, 0, len(adapters))
	for _, a := range adapters {
		ds, err := a.DataSource(ctx, filter)
		if err != nil {
			return nil, MuseumError{MuseumID: a.ID(), Name: a.Name(), Err: err}
		}
		sources = append(sources, ds)
	}
	return sources, nil
}
