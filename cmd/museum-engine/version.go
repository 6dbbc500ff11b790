package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/museum-engine/internal/collection"
	"github.com/pdiddy/museum-engine/pkg/types"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the museum-engine version and its registered museums",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout(), newRegistry(types.Config{}))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func printVersion(w io.Writer, reg *collection.Registry) {
	fmt.Fprintf(w, "museum-engine %s\n", version)
	for _, a := range reg.Adapters() {
		fmt.Fprintf(w, "  %-4s %s\n", a.ID(), a.Name())
	}
}
