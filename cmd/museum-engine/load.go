// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/museum-engine/internal/collection"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load raw museum exports into the local caches",
	Long: `Load validates each museum's raw export and rebuilds its local cache.
The required files are checked before anything is written, and a failed load
leaves the previous cache in place. A failed load must be rerun in full.

Without --museum every registered museum is loaded and a failing museum is
reported while the rest continue. Naming museums with --museum makes the
first failure abort the run.`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringSliceP("museum", "m", nil, "museum ids to load (repeatable; default all)")
	loadCmd.Flags().StringToString("source", nil, "override a source path, as id=path (repeatable)")

	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ids, _ := cmd.Flags().GetStringSlice("museum")
	sources, _ := cmd.Flags().GetStringToString("source")

	reg := newRegistry(cfg)
	summary, err := reg.Load(cmd.Context(), ids, sources, cliProgress{w: os.Stderr})
	collection.FormatLoadSummary(summary, os.Stdout)
	if err != nil {
		return err
	}
	if len(summary.Failed) > 0 {
		return fmt.Errorf("%d museum(s) failed to load", len(summary.Failed))
	}
	return nil
}
