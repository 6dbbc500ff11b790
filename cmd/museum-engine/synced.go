// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/pdiddy/museum-engine/internal/persist"
	"github.com/pdiddy/museum-engine/pkg/types"
)

var syncedCmd = &cobra.Command{
	Use:   "synced",
	Short: "List records synced into the shared store",
	Long: `Synced reads back the shared store: the most recently synced records,
optionally for one museum, or with --runs the recorded sync runs. With
--export DIR it writes export.yaml and export.json snapshots instead, and
with --id it prints one record.`,
	RunE: runSynced,
}

func init() {
	syncedCmd.Flags().StringP("museum", "m", "", "only list records of this museum")
	syncedCmd.Flags().IntP("limit", "n", 20, "maximum rows to list (0 for all)")
	syncedCmd.Flags().String("env", "", "store to read: default or alternate")
	syncedCmd.Flags().Bool("runs", false, "list sync runs instead of records")
	syncedCmd.Flags().Bool("json", false, "output as JSON")
	syncedCmd.Flags().String("export", "", "write YAML and JSON snapshots to this directory")
	syncedCmd.Flags().String("id", "", "print the record with this global id")

	rootCmd.AddCommand(syncedCmd)
}

func runSynced(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if env, _ := cmd.Flags().GetString("env"); env != "" {
		cfg.Store.Env = types.StoreEnv(env)
	}
	path, err := cfg.Store.Resolve()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no shared store at %s: run a search with --save first", path)
	}

	store, err := persist.NewStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	museumID, _ := cmd.Flags().GetString("museum")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if id, _ := cmd.Flags().GetString("id"); id != "" {
		rec, err := store.Get(ctx, id)
		if persist.IsNotFound(err) {
			return fmt.Errorf("%s has not been synced to %s", id, path)
		}
		if err != nil {
			return err
		}
		return encodeJSON(rec)
	}

	if dir, _ := cmd.Flags().GetString("export"); dir != "" {
		n, err := store.Export(ctx, museumID, dir)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d records to %s\n", n, dir)
		return nil
	}

	if runs, _ := cmd.Flags().GetBool("runs"); runs {
		list, err := store.Runs(ctx, limit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return encodeJSON(list)
		}
		return formatRuns(list)
	}

	records, err := store.List(ctx, museumID, limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return encodeJSON(records)
	}

	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	table := tablewriter.NewTable(os.Stdout)
	table.Header("Global ID", "Title", "Artists", "Last Synced", "Run")
	for _, r := range records {
		artists := ""
		if names := r.ArtistNames(); len(names) > 0 {
			artists = names[0]
		}
		if err := table.Append(r.GlobalID, r.Title, artists, r.LastSyncedAt.Local().Format(time.DateTime), shortID(r.SyncRunID)); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Printf("\n%d of %d records in %s\n", len(records), total, path)
	return nil
}

func formatRuns(runs []persist.SyncRun) error {
	table := tablewriter.NewTable(os.Stdout)
	table.Header("Run", "Started", "New", "Updated", "Failed At", "Error")
	for _, r := range runs {
		err := table.Append(
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			strconv.Itoa(r.New),
			strconv.Itoa(r.Updated),
			r.FailedAtGlobalID,
			r.Error,
		)
		if err != nil {
			return err
		}
	}
	return table.Render()
}

func encodeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
