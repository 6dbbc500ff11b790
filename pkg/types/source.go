// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DataSourceKind names what an adapter reads during search.
type DataSourceKind string

const (
	// SourceLocalCache is the museum's SQLite cache built by a load.
	SourceLocalCache DataSourceKind = "local_cache"
)

// DataSource describes, for one museum, the data a search with a given
// filter would consult. It is produced without running the search.
type DataSource struct {
	MuseumID string         `json:"museum_id" yaml:"museum_id"`
	Name     string         `json:"name" yaml:"name"`
	Kind     DataSourceKind `json:"kind" yaml:"kind"`

	// CachePath is the local cache file the search reads.
	CachePath string `json:"cache_path" yaml:"cache_path"`

	// Ready is false when the cache has not been loaded.
	Ready bool `json:"ready" yaml:"ready"`

	RecordCount int       `json:"record_count" yaml:"record_count"`
	LoadedAt    time.Time `json:"loaded_at,omitempty" yaml:"loaded_at,omitempty"`

	// SourcePath is the raw export the cache was built from, or the
	// default source path when the cache is not loaded.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// Unsupported lists facets in the filter that this museum's data does
	// not carry; such a filter yields no results from this museum.
	Unsupported []string `json:"unsupported,omitempty" yaml:"unsupported,omitempty"`
}

// LoadResult reports one completed load.
type LoadResult struct {
	MuseumID    string        `json:"museum_id" yaml:"museum_id"`
	Name        string        `json:"name" yaml:"name"`
	SourcePath  string        `json:"source_path" yaml:"source_path"`
	CachePath   string        `json:"cache_path" yaml:"cache_path"`
	RecordCount int           `json:"record_count" yaml:"record_count"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}
