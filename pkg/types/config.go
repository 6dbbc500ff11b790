package types

import (
	"fmt"
	"path/filepath"
)

// StoreEnv selects which shared store a sync writes to.
type StoreEnv string

const (
	StoreEnvDefault   StoreEnv = "default"
	StoreEnvAlternate StoreEnv = "alternate"
)

// CacheConfig holds settings for the per-museum local caches.
type CacheConfig struct {
	// Dir is the directory holding one <museum>.db file per museum
	// (default "data/cache").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// CachePath returns the local cache file for museumID.
func (c CacheConfig) CachePath(museumID string) string {
	dir := c.Dir
	if dir == "" {
		dir = filepath.Join("data", "cache")
	}
	return filepath.Join(dir, museumID+".db")
}

// SourcesConfig holds raw export locations.
type SourcesConfig struct {
	// RawDir is the parent of the per-museum default source directories
	// (default "data/raw").
	RawDir string `json:"raw_dir" yaml:"raw_dir" mapstructure:"raw_dir"`

	// Paths overrides the source path of individual museums, keyed by id.
	Paths map[string]string `json:"paths,omitempty" yaml:"paths,omitempty" mapstructure:"paths"`
}

// DefaultSourcePath returns the raw export directory for museumID.
func (c SourcesConfig) DefaultSourcePath(museumID string) string {
	if p, ok := c.Paths[museumID]; ok && p != "" {
		return p
	}
	dir := c.RawDir
	if dir == "" {
		dir = filepath.Join("data", "raw")
	}
	return filepath.Join(dir, museumID)
}

// StoreConfig holds settings for the shared store that receives synced results.
type StoreConfig struct {
	// Path is the SQLite file of the default store (default "data/artworks.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// AlternatePath is the SQLite file used when Env is "alternate".
	AlternatePath string `json:"alternate_path" yaml:"alternate_path" mapstructure:"alternate_path"`

	// Env selects between Path and AlternatePath.
	Env StoreEnv `json:"env" yaml:"env" mapstructure:"env"`
}

// Resolve returns the store file selected by Env.
func (c StoreConfig) Resolve() (string, error) {
	switch c.Env {
	case StoreEnvDefault, "":
		if c.Path == "" {
			return filepath.Join("data", "artworks.db"), nil
		}
		return c.Path, nil
	case StoreEnvAlternate:
		if c.AlternatePath == "" {
			return "", fmt.Errorf("store env %q selected but no alternate_path configured", c.Env)
		}
		return c.AlternatePath, nil
	default:
		return "", fmt.Errorf("unknown store env %q: use %q or %q", c.Env, StoreEnvDefault, StoreEnvAlternate)
	}
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a zerolog level name (debug, info, warn, error).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "console", "json", or "auto" (console on a terminal).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all settings. The CLI builds it once from flags, the config
// file and the environment, then hands the parts to each component.
type Config struct {
	Cache   CacheConfig   `json:"cache" yaml:"cache" mapstructure:"cache"`
	Sources SourcesConfig `json:"sources" yaml:"sources" mapstructure:"sources"`
	Store   StoreConfig   `json:"store" yaml:"store" mapstructure:"store"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}
