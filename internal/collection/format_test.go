// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collection

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/museum-engine/pkg/types"
)

func intPtr(n int) *int { return &n }

func sampleOutput() SearchOutput {
	return SearchOutput{
		Results: []types.ArtworkResult{
			{
				GlobalID:       "met:436535",
				MuseumID:       "met",
				LocalID:        "436535",
				Title:          "Wheat Field with Cypresses",
				Artists:        []types.Artist{{Name: "Vincent van Gogh"}},
				DateStart:      intPtr(1889),
				DateEnd:        intPtr(1889),
				MediumDisplay:  "Oil on canvas",
				ImageURL:       "https://images.metmuseum.org/436535.jpg",
				IsPublicDomain: true,
				SourceURL:      "https://www.metmuseum.org/art/collection/search/436535",
				RawMetadata:    json.RawMessage(`{"Object ID":"436535"}`),
			},
			{
				GlobalID:    "aic:16568",
				MuseumID:    "aic",
				LocalID:     "16568",
				Title:       "Water Lilies",
				Artists:     []types.Artist{{Name: "Claude Monet"}},
				DateStart:   intPtr(1906),
				DateEnd:     intPtr(1908),
				Mediums:     []string{"oil paint", "canvas"},
				DateCreated: "1906-1908",
			},
		},
		MuseumErrors: []MuseumError{{MuseumID: "cma", Name: "Cleveland Museum of Art", Err: errors.New("local cache not loaded")}},
	}
}

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatTable(sampleOutput(), &buf))
	out := buf.String()

	assert.Contains(t, out, "warning: cma (Cleveland Museum of Art): local cache not loaded")
	assert.Contains(t, out, "Wheat Field with Cypresses")
	assert.Contains(t, out, "met / 436535")
	assert.Contains(t, out, "Vincent van Gogh")
	assert.Contains(t, out, "1906-1908")
	assert.Contains(t, out, "oil paint, canvas")
	assert.Contains(t, out, "https://images.metmuseum.org/436535.jpg")
	assert.Contains(t, out, "2 results (met: 1, aic: 1)")
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatTable(SearchOutput{}, &buf))
	assert.Contains(t, buf.String(), "No results found.")
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(sampleOutput(), &buf))

	var decoded []types.ArtworkResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "met:436535", decoded[0].GlobalID)
	assert.JSONEq(t, `{"Object ID":"436535"}`, string(decoded[0].RawMetadata))
}

func TestFormatDataSources(t *testing.T) {
	var buf bytes.Buffer
	err := FormatDataSources([]types.DataSource{
		{MuseumID: "met", Name: "The Metropolitan Museum of Art", Ready: true, RecordCount: 3, LoadedAt: time.Now(), CachePath: "data/cache/met.db", Unsupported: []string{"genre"}},
		{MuseumID: "aic", Name: "Art Institute of Chicago", CachePath: "data/cache/aic.db"},
	}, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "data/cache/met.db")
	assert.Contains(t, buf.String(), "genre")
}

func TestFormatLoadSummary(t *testing.T) {
	var buf bytes.Buffer
	FormatLoadSummary(LoadSummary{
		Loaded: []types.LoadResult{{MuseumID: "met", RecordCount: 3}},
		Failed: []MuseumError{{MuseumID: "aic", Err: errors.New("missing json/artworks")}},
	}, &buf)
	assert.Contains(t, buf.String(), "aic    FAILED  missing json/artworks")
	assert.Contains(t, buf.String(), "Loaded 1 museums (3 records), 1 failed")
}

func TestFormatYear(t *testing.T) {
	tests := []struct {
		name string
		r    types.ArtworkResult
		want string
	}{
		{"single", types.ArtworkResult{DateStart: intPtr(1889), DateEnd: intPtr(1889)}, "1889"},
		{"range", types.ArtworkResult{DateStart: intPtr(1830), DateEnd: intPtr(1832)}, "1830-1832"},
		{"end only", types.ArtworkResult{DateEnd: intPtr(1500)}, "1500"},
		{"raw label", types.ArtworkResult{DateCreated: "19th century"}, "19th century"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatYear(tt.r))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Nymph...", truncate("Nymphéas, effet du soir", 8))
}

func TestQueryFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries", "lilies.yaml")
	filter := types.SearchFilter{Query: "lilies", Museums: []string{"aic"}, DateRange: &types.DateRange{Start: types.Year(1900)}}

	require.NoError(t, WriteQueryFile(path, filter, sampleOutput()))
	qf, err := ReadQueryFile(path)
	require.NoError(t, err)

	assert.Equal(t, "lilies", qf.Filter.Query)
	assert.Equal(t, types.DefaultLimit, qf.Filter.Limit)
	require.NotNil(t, qf.Filter.DateRange)
	require.NotNil(t, qf.Filter.DateRange.Start)
	assert.Equal(t, 1900, *qf.Filter.DateRange.Start)
	assert.Equal(t, 2, qf.Summary.Total)
	assert.Equal(t, map[string]int{"met": 1, "aic": 1}, qf.Summary.PerMuseum)
	require.Len(t, qf.Summary.MuseumErrors, 1)
	require.Len(t, qf.Results, 2)
	assert.Equal(t, "aic:16568", qf.Results[1].GlobalID)
	assert.Equal(t, 1908, *qf.Results[1].DateEnd)
	assert.Empty(t, qf.Results[0].RawMetadata, "raw metadata is not written to query files")
}

func TestReadQueryFileMissing(t *testing.T) {
	_, err := ReadQueryFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
