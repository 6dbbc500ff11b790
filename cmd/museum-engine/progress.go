package main

import (
	"fmt"
	"io"

	"github.com/pdiddy/museum-engine/pkg/types"
)

// cliProgress prints one line per museum as a search or load runs.
type cliProgress struct {
	w io.Writer
}

func (p cliProgress) OnMuseumStart(museumID, name string) {
	fmt.Fprintf(p.w, "searching %s (%s)... ", museumID, name)
}

func (p cliProgress) OnMuseumComplete(_, _ string, resultCount int) {
	fmt.Fprintf(p.w, "%d results\n", resultCount)
}

func (p cliProgress) OnLoadStart(museumID, name, sourcePath string) {
	fmt.Fprintf(p.w, "loading %s (%s) from %s... ", museumID, name, sourcePath)
}

func (p cliProgress) OnLoadComplete(_, _ string, result types.LoadResult, err error) {
	if err != nil {
		fmt.Fprintln(p.w, "failed")
		return
	}
	fmt.Fprintf(p.w, "%d records\n", result.RecordCount)
}
