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

var searchCmd = &cobra.Command{
	Use:   "search [keywords...]",
	Short: "Search the loaded museum caches",
	Long: `Search runs one filter against each selected museum's local cache, in
registration order, and prints the combined results. --limit applies to each
museum, so three museums return up to three times --limit results.

Facet flags may be repeated. Values of one facet match any of them; different
facets must all match. A museum that fails to search is skipped with a
warning. Results are only written to the shared store with --save.`,
	RunE: runSearch,
}

func init() {
	addFilterFlags(searchCmd)
	searchCmd.Flags().StringP("query", "q", "", "keyword matched against title, description, artists, medium, culture and tags")
	searchCmd.Flags().IntP("limit", "n", types.DefaultLimit, "maximum results per museum")
	searchCmd.Flags().Bool("has-image", false, "only return records with an image")
	searchCmd.Flags().Bool("save", false, "sync the results into the shared store")
	searchCmd.Flags().String("env", "", "target store when saving: default or alternate")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("out", "", "also write the filter and results to this YAML file")

	rootCmd.AddCommand(searchCmd)
}

// addFilterFlags registers the museum selection and facet flags shared by
// search and sources.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("museum", "m", nil, "museum ids to search (repeatable; default all)")
	cmd.Flags().StringArray("genre", nil, "genre facet (repeatable)")
	cmd.Flags().StringArray("artist", nil, "artist facet, e.g. \"Monet, Claude\" (repeatable)")
	cmd.Flags().StringArray("medium", nil, "medium facet (repeatable)")
	cmd.Flags().StringArray("classification", nil, "classification facet (repeatable)")
	cmd.Flags().Int("from", 0, "earliest year, inclusive")
	cmd.Flags().Int("to", 0, "latest year, inclusive")
}

// filterFromFlags builds the unified filter. Positional keywords are joined
// onto --query.
func filterFromFlags(cmd *cobra.Command, args []string) (types.SearchFilter, error) {
	var f types.SearchFilter
	flags := cmd.Flags()

	f.Museums, _ = flags.GetStringSlice("museum")
	f.Genres, _ = flags.GetStringArray("genre")
	f.Artists, _ = flags.GetStringArray("artist")
	f.Mediums, _ = flags.GetStringArray("medium")
	f.Classifications, _ = flags.GetStringArray("classification")

	if flags.Lookup("query") != nil {
		query, _ := flags.GetString("query")
		f.Query = strings.TrimSpace(strings.Join(append([]string{query}, args...), " "))
	}
	if flags.Lookup("limit") != nil {
		f.Limit, _ = flags.GetInt("limit")
	}
	if flags.Lookup("has-image") != nil {
		f.HasImageOnly, _ = flags.GetBool("has-image")
	}

	var r types.DateRange
	if flags.Changed("from") {
		from, _ := flags.GetInt("from")
		r.Start = &from
	}
	if flags.Changed("to") {
		to, _ := flags.GetInt("to")
		r.End = &to
	}
	if r.Start != nil && r.End != nil && *r.Start > *r.End {
		return f, fmt.Errorf("--from %d is after --to %d", *r.Start, *r.End)
	}
	if !r.IsZero() {
		f.DateRange = &r
	}
	return f, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	filter, err := filterFromFlags(cmd, args)
	if err != nil {
		return err
	}

	save, _ := cmd.Flags().GetBool("save")
	storePath := ""
	if env, _ := cmd.Flags().GetString("env"); env != "" {
		cfg.Store.Env = types.StoreEnv(env)
	}
	if save || cmd.Flags().Changed("env") {
		// A bad selector fails before any search runs.
		if storePath, err = cfg.Store.Resolve(); err != nil {
			return err
		}
	}

	reg := newRegistry(cfg)
	out, err := reg.Search(ctx, filter, cliProgress{w: os.Stderr})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		if err := collection.FormatJSON(out, os.Stdout); err != nil {
			return err
		}
	} else if err := collection.FormatTable(out, os.Stdout); err != nil {
		return err
	}

	if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
		if err := collection.WriteQueryFile(outPath, filter, out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", outPath)
	}

	if len(out.Results) == 0 && len(out.MuseumErrors) > 0 {
		return fmt.Errorf("%d museum(s) failed to search and none returned results", len(out.MuseumErrors))
	}

	if !save {
		if len(out.Results) > 0 {
			fmt.Fprintln(os.Stderr, "Preview only: re-run with --save to sync these results.")
		}
		return nil
	}

	store, err := persist.NewStore(storePath)
	if err != nil {
		return err
	}
	defer store.Close()

	logging.FromContext(ctx).Info().Str("store", storePath).Int("records", len(out.Results)).Msg("syncing results")
	summary, err := store.Sync(ctx, out.Results)
	fmt.Fprintf(os.Stderr, "Synced to %s: %d new, %d updated (run %s)\n", storePath, summary.New, summary.Updated, summary.RunID)
	return err
}
