// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/pdiddy/museum-engine/internal/collection"
	"github.com/pdiddy/museum-engine/internal/museum"
	"github.com/pdiddy/museum-engine/pkg/types"
)

func setDefaults() {
	viper.SetDefault("cache.dir", filepath.Join("data", "cache"))
	viper.SetDefault("sources.raw_dir", filepath.Join("data", "raw"))
	viper.SetDefault("store.path", filepath.Join("data", "artworks.db"))
	viper.SetDefault("store.alternate_path", "")
	viper.SetDefault("store.env", string(types.StoreEnvDefault))
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "auto")
}

// loadConfig builds the configuration once from flags, environment and
// config file. Components receive the parts they need from it and never
// read the environment themselves.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing configuration: %w", err)
	}
	return cfg, nil
}

// newRegistry registers every museum in a fixed order.
func newRegistry(cfg types.Config) *collection.Registry {
	return collection.NewRegistry(
		museum.NewMet(museum.PathsFor(cfg, museum.MetID)),
		museum.NewArtic(museum.PathsFor(cfg, museum.ArticID)),
		museum.NewCleveland(museum.PathsFor(cfg, museum.ClevelandID)),
	)
}
