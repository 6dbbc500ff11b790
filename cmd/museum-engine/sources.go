// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/museum-engine/internal/collection"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show the data source each museum would search",
	Long: `Sources reports, for each selected museum, the local cache a search
would read, whether it is loaded, when, and from where. Facet flags list
the facets a museum's data cannot satisfy. Nothing is searched.`,
	RunE: runSources,
}

func init() {
	addFilterFlags(sourcesCmd)
	sourcesCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	filter, err := filterFromFlags(cmd, nil)
	if err != nil {
		return err
	}

	sources, err := newRegistry(cfg).DataSources(cmd.Context(), filter)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sources)
	}
	return collection.FormatDataSources(sources, os.Stdout)
}
