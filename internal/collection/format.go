// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collection

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/pdiddy/museum-engine/pkg/types"
)

// FormatTable writes the search report: one row per result with index,
// title, museum and local id, artists, year, medium, image and public domain
// flags, image URL and source page URL.
func FormatTable(out SearchOutput, w io.Writer) error {
	for _, me := range out.MuseumErrors {
		fmt.Fprintf(w, "warning: %v\n", me)
	}
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	table := tablewriter.NewTable(w)
	table.Header("#", "Title", "Museum / ID", "Artists", "Year", "Medium", "Image", "PD", "Image URL", "Source URL")
	for i, r := range out.Results {
		err := table.Append(
			strconv.Itoa(i+1),
			truncate(r.Title, 48),
			r.MuseumID+" / "+r.LocalID,
			truncate(formatArtists(r.ArtistNames()), 40),
			formatYear(r),
			truncate(formatMedium(r), 32),
			yesNo(r.HasImage()),
			yesNo(r.IsPublicDomain),
			r.ImageURL,
			r.SourceURL,
		)
		if err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	counts := out.CountByMuseum()
	parts := make([]string, 0, len(counts))
	seen := map[string]bool{}
	for _, r := range out.Results {
		if !seen[r.MuseumID] {
			seen[r.MuseumID] = true
			parts = append(parts, fmt.Sprintf("%s: %d", r.MuseumID, counts[r.MuseumID]))
		}
	}
	fmt.Fprintf(w, "\n%d results (%s)\n", len(out.Results), strings.Join(parts, ", "))
	return nil
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(out SearchOutput, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Results)
}

// FormatDataSources writes one row per museum describing its cache.
func FormatDataSources(sources []types.DataSource, w io.Writer) error {
	table := tablewriter.NewTable(w)
	table.Header("Museum", "Name", "Ready", "Records", "Loaded", "Cache", "Source", "Unsupported")
	for _, ds := range sources {
		loaded := ""
		if !ds.LoadedAt.IsZero() {
			loaded = ds.LoadedAt.Local().Format(time.DateTime)
		}
		err := table.Append(
			ds.MuseumID,
			ds.Name,
			yesNo(ds.Ready),
			strconv.Itoa(ds.RecordCount),
			loaded,
			ds.CachePath,
			ds.SourcePath,
			strings.Join(ds.Unsupported, ", "),
		)
		if err != nil {
			return err
		}
	}
	return table.Render()
}

// FormatLoadSummary writes the outcome of a load run.
func FormatLoadSummary(s LoadSummary, w io.Writer) {
	for _, l := range s.Loaded {
		fmt.Fprintf(w, "  %-6s %8d records  %s -> %s (%s)\n",
			l.MuseumID, l.RecordCount, l.SourcePath, l.CachePath, l.Duration.Round(time.Millisecond))
	}
	for _, f := range s.Failed {
		fmt.Fprintf(w, "  %-6s FAILED  %v\n", f.MuseumID, f.Err)
	}
	fmt.Fprintf(w, "\nLoaded %d museums (%d records), %d failed in %s\n",
		len(s.Loaded), s.Records(), len(s.Failed), s.Duration.Round(time.Millisecond))
}

// formatArtists lists up to three names.
func formatArtists(names []string) string {
	if len(names) > 3 {
		return strings.Join(names[:3], ", ") + " et al."
	}
	return strings.Join(names, ", ")
}

// formatYear prefers the exact years and falls back to the raw date label.
func formatYear(r types.ArtworkResult) string {
	switch {
	case r.DateStart != nil && r.DateEnd != nil && *r.DateEnd != *r.DateStart:
		return fmt.Sprintf("%d-%d", *r.DateStart, *r.DateEnd)
	case r.DateStart != nil:
		return strconv.Itoa(*r.DateStart)
	case r.DateEnd != nil:
		return strconv.Itoa(*r.DateEnd)
	default:
		return r.DateCreated
	}
}

func formatMedium(r types.ArtworkResult) string {
	if r.MediumDisplay != "" {
		return r.MediumDisplay
	}
	return strings.Join(r.Mediums, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
