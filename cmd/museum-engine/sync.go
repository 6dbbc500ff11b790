// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/museum-engine/internal/collection"
	"github.com/pdiddy/museum-engine/internal/logging"
	"github.com/pdiddy/museum-engine/internal/persist"
	"github.com/pdiddy/museum-engine/pkg/types"
)

var syncCmd = &cobra.Command{
	Use:   "sync QUERY_FILE",
	Short: "Sync the results of a saved search into the shared store",
	Long: `Sync commits a search previewed earlier with "search --out FILE". The saved
filter is re-run against the local caches and the records the file lists are
upserted, so raw source metadata is stored with them. Records the caches no
longer return are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().String("env", "", "target store: default or alternate")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if env, _ := cmd.Flags().GetString("env"); env != "" {
		cfg.Store.Env = types.StoreEnv(env)
	}
	storePath, err := cfg.Store.Resolve()
	if err != nil {
		return err
	}

	qf, err := collection.ReadQueryFile(args[0])
	if err != nil {
		return err
	}
	if len(qf.Results) == 0 {
		return fmt.Errorf("%s lists no results to sync", args[0])
	}

	out, missing, err := newRegistry(cfg).Replay(ctx, qf, cliProgress{w: os.Stderr})
	if err != nil {
		return err
	}
	for _, me := range out.MuseumErrors {
		fmt.Fprintf(os.Stderr, "warning: %v\n", me)
	}
	if len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d saved records no longer in the caches: %s\n", len(missing), strings.Join(missing, ", "))
	}
	if len(out.Results) == 0 {
		return fmt.Errorf("none of the %d saved records were found in the caches", len(qf.Results))
	}

	store, err := persist.NewStore(storePath)
	if err != nil {
		return err
	}
	defer store.Close()

	logging.FromContext(ctx).Info().Str("store", storePath).Str("query_file", args[0]).Int("records", len(out.Results)).Msg("syncing saved results")
	summary, err := store.Sync(ctx, out.Results)
	fmt.Fprintf(os.Stderr, "Synced to %s: %d new, %d updated (run %s)\n", storePath, summary.New, summary.Updated, summary.RunID)
	return err
}
