//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Load builds the CLI and loads every museum export under data/raw into
// its local cache.
func Load() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "load")
}

// Sources builds the CLI and reports the state of every local cache.
func Sources() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "sources")
}
