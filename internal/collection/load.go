// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collection

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/museum-engine/internal/logging"
	"github.com/pdiddy/museum-engine/pkg/types"
)

// LoadProgress observes a load. Calls are made synchronously around each
// adapter's load; err is nil on success.
type LoadProgress interface {
	OnLoadStart(museumID, name, sourcePath string)
	OnLoadComplete(museumID, name string, result types.LoadResult, err error)
}

// NopLoadProgress ignores all load events.
type NopLoadProgress struct{}

func (NopLoadProgress) OnLoadStart(string, string, string)                     {}
func (NopLoadProgress) OnLoadComplete(string, string, types.LoadResult, error) {}

// LoadSummary reports the outcome of a load run.
type LoadSummary struct {
	Loaded   []types.LoadResult
	Failed   []MuseumError
	Duration time.Duration
}

// Records returns the total number of records loaded.
func (s LoadSummary) Records() int {
	n := 0
	for _, l := range s.Loaded {
		n += l.RecordCount
	}
	return n
}

// Load runs each selected museum's load in registration order. sources
// overrides the source path per museum id; unset museums use their default.
//
// With ids empty every registered museum is loaded and a failing museum is
// recorded in the summary while the rest continue. With ids given, the
// operator asked for those museums specifically, so the first failure
// aborts the run and is returned.
func (r *Registry) Load(ctx context.Context, ids []string, sources map[string]string, progress LoadProgress) (LoadSummary, error) {
	adapters, err := r.selected(ids)
	if err != nil {
		return LoadSummary{}, err
	}
	for id := range sources {
		if _, ok := r.Lookup(id); !ok {
			return LoadSummary{}, fmt.Errorf("%w: source override for %q", ErrUnknownMuseum, id)
		}
	}
	if progress == nil {
		progress = NopLoadProgress{}
	}

	explicit := len(ids) > 0
	start := time.Now()
	var summary LoadSummary

	for _, a := range adapters {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			return summary, err
		}

		sourcePath := sources[a.ID()]
		if sourcePath == "" {
			sourcePath = a.DefaultSourcePath()
		}

		progress.OnLoadStart(a.ID(), a.Name(), sourcePath)
		result, err := a.LoadRawDataset(logging.WithMuseum(ctx, a.ID()), sourcePath)
		progress.OnLoadComplete(a.ID(), a.Name(), result, err)

		if err != nil {
			me := MuseumError{MuseumID: a.ID(), Name: a.Name(), Err: err}
			summary.Failed = append(summary.Failed, me)
			if explicit {
				summary.Duration = time.Since(start)
				return summary, me
			}
			logging.FromContext(ctx).Error().Err(err).Str("museum_id", a.ID()).Msg("load failed, continuing with remaining museums")
			continue
		}
		summary.Loaded = append(summary.Loaded, result)
	}

	summary.Duration = time.Since(start)
	return summary, nil
}
