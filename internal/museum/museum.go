// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package museum holds one adapter per museum collection export. Each
// adapter owns its raw format: it validates and reads the export into a
// local cache during load, and translates the unified search filter into a
// cache query during search. Adapters share helpers by composition only;
// no parsing is shared between formats.
package museum

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pdiddy/museum-engine/internal/cache"
	"github.com/pdiddy/museum-engine/internal/logging"
	"github.com/pdiddy/museum-engine/internal/normalize"
	"github.com/pdiddy/museum-engine/pkg/types"
)

var (
	// ErrMissingSource indicates a required source directory or file is absent.
	ErrMissingSource = errors.New("required source path missing")

	// ErrInvalidSource indicates the raw export exists but cannot be read.
	ErrInvalidSource = errors.New("invalid source data")

	// ErrCacheNotLoaded indicates a search on a museum that was never loaded.
	ErrCacheNotLoaded = cache.ErrNotLoaded
)

// Error carries the museum and path involved in a failed operation.
type Error struct {
	MuseumID string
	Name     string
	Op       string
	Path     string
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s (%s): %s: %v", e.Op, e.MuseumID, e.Name, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s (%s): %v", e.Op, e.MuseumID, e.Name, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *Error) Unwrap() error {
	return e.Err
}

// Paths locates an adapter's raw export and local cache.
type Paths struct {
	Source string
	Cache  string
}

// PathsFor resolves the default paths of museumID from configuration.
func PathsFor(cfg types.Config, museumID string) Paths {
	return Paths{
		Source: cfg.Sources.DefaultSourcePath(museumID),
		Cache:  cfg.Cache.CachePath(museumID),
	}
}

// identity is the part of an adapter every helper needs to label errors.
type identity struct {
	id   string
	name string
}

func (m identity) errorf(op, path string, err error) *Error {
	return &Error{MuseumID: m.id, Name: m.name, Op: op, Path: path, Err: err}
}

// requirePaths checks, in order, that every path exists. It returns an
// *Error naming the first missing one. Nothing is written.
func (m identity) requirePaths(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				return m.errorf("load", p, ErrMissingSource)
			}
			return m.errorf("load", p, err)
		}
	}
	return nil
}

// build runs cache.Build and wraps the outcome.
func (m identity) build(ctx context.Context, sourcePath, cachePath string, fill func(w *cache.Writer) error) (types.LoadResult, error) {
	start := time.Now()
	log := logging.FromContext(ctx)
	log.Info().Str("source", sourcePath).Str("cache", cachePath).Msg("loading raw dataset")

	count, err := cache.Build(ctx, cachePath, sourcePath, fill)
	if err != nil {
		var me *Error
		if errors.As(err, &me) {
			return types.LoadResult{}, err
		}
		return types.LoadResult{}, m.errorf("load", sourcePath, err)
	}

	result := types.LoadResult{
		MuseumID:    m.id,
		Name:        m.name,
		SourcePath:  sourcePath,
		CachePath:   cachePath,
		RecordCount: count,
		Duration:    time.Since(start),
	}
	log.Info().Int("records", count).Dur("duration", result.Duration).Msg("load complete")
	return result, nil
}

// search opens the cache, runs q, and stamps museum identity on every result.
func (m identity) search(ctx context.Context, cachePath string, q cache.Query) ([]types.ArtworkResult, error) {
	c, err := cache.Open(cachePath)
	if err != nil {
		return nil, m.errorf("search", cachePath, err)
	}
	defer c.Close()

	results, err := c.Search(ctx, q)
	if err != nil {
		return nil, m.errorf("search", cachePath, err)
	}
	for i := range results {
		results[i].MuseumID = m.id
		results[i].GlobalID = types.GlobalID(m.id, results[i].LocalID)
	}
	logging.FromContext(ctx).Debug().Int("results", len(results)).Msg("cache search complete")
	return results, nil
}

// dataSource describes the cache a search would read.
func (m identity) dataSource(ctx context.Context, cachePath, defaultSource string, unsupported []string) (types.DataSource, error) {
	info, err := cache.Stat(ctx, cachePath)
	if err != nil {
		return types.DataSource{}, m.errorf("inspect", cachePath, err)
	}
	ds := types.DataSource{
		MuseumID:    m.id,
		Name:        m.name,
		Kind:        types.SourceLocalCache,
		CachePath:   cachePath,
		Ready:       info.Exists,
		RecordCount: info.RecordCount,
		LoadedAt:    info.LoadedAt,
		SourcePath:  defaultSource,
		Unsupported: unsupported,
	}
	if info.SourcePath != "" {
		ds.SourcePath = info.SourcePath
	}
	return ds, nil
}

// cacheQuery translates the facets every museum carries. Callers adjust the
// result for facets their data lacks.
func cacheQuery(filter types.SearchFilter) cache.Query {
	q := cache.Query{
		Text:            filter.Query,
		Genres:          filter.Genres,
		Classifications: filter.Classifications,
		Mediums:         filter.Mediums,
		HasImage:        filter.HasImageOnly,
		Limit:           filter.EffectiveLimit(),
	}
	for _, a := range filter.Artists {
		if name := normalize.ArtistName(a); name != "" {
			q.Artists = append(q.Artists, strings.ToLower(name))
		}
	}
	if r := filter.DateRange; r != nil {
		if r.Start != nil {
			q.YearFrom = types.Year(*r.Start)
		}
		if r.End != nil {
			q.YearTo = types.Year(*r.End)
		}
	}
	return q
}

// unsupportedFacets returns the facets set in filter that appear in lacks.
func unsupportedFacets(filter types.SearchFilter, lacks ...string) []string {
	var out []string
	for _, f := range filter.Facets() {
		for _, l := range lacks {
			if f == l {
				out = append(out, f)
			}
		}
	}
	return out
}
