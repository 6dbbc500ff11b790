// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package museum

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/museum-engine/pkg/types"
)

const sampleArticNighthawks = `{
  "id": 111628,
  "title": "Nighthawks",
  "description": "<p>Edward Hopper said that Nighthawks was inspired by a restaurant.</p>",
  "artist_display": "Edward Hopper\nAmerican, 1882–1967",
  "artist_titles": ["Edward Hopper"],
  "date_start": 1942,
  "date_end": 1942,
  "date_display": "1942",
  "medium_display": "Oil on canvas",
  "material_titles": ["oil paint (paint)", "canvas"],
  "style_titles": ["Modernism", "Realism"],
  "classification_titles": ["painting", "oil on canvas"],
  "term_titles": ["urban life", "night"],
  "department_title": "Arts of the Americas",
  "place_of_origin": "United States",
  "credit_line": "Friends of American Art Collection",
  "dimensions": "84.1 × 152.4 cm",
  "is_public_domain": false,
  "image_id": "831a05de-d3f6-f4fa-a460-23008dd58dda",
  "alt_image_ids": ["a1b2"]
}`

const sampleArticListTitle = `{
  "data": {
    "id": 16568,
    "title": ["Water Lilies", "Nymphéas"],
    "description": null,
    "artist_title": "MONET, CLAUDE",
    "date_start": 1906,
    "date_end": 1906,
    "style_titles": "Impressionism",
    "classification_titles": ["painting"],
    "is_public_domain": true,
    "image_id": "3c27b499-af56-f0d5-93b5-a7f2f1ad5813"
  },
  "info": {"license_text": "CC0"}
}`

const sampleArticFractionalYear = `{
  "id": "27992",
  "title": "",
  "artist_display": "Georges Seurat (French, 1859–1891)\nFrench",
  "date_start": 1875.5,
  "date_end": null,
  "is_public_domain": true
}`

func writeArticExport(t *testing.T, root string) {
	t.Helper()
	dir := filepath.Join(root, "json", "artworks")
	writeFile(t, filepath.Join(dir, "111628.json"), sampleArticNighthawks)
	writeFile(t, filepath.Join(dir, "16568.json"), sampleArticListTitle)
	writeFile(t, filepath.Join(dir, "27992.json"), sampleArticFractionalYear)
	writeFile(t, filepath.Join(dir, "README.txt"), "not an artwork")
}

func loadedArtic(t *testing.T) *Artic {
	t.Helper()
	a := NewArtic(testPaths(t, ArticID))
	writeArticExport(t, a.DefaultSourcePath())
	result, err := a.LoadRawDataset(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 3, result.RecordCount)
	assert.Equal(t, ArticID, result.MuseumID)
	assert.Equal(t, a.ProcessedCachePath(), result.CachePath)
	return a
}

func TestArticLoadAndSearch(t *testing.T) {
	a := loadedArtic(t)

	results, err := a.Search(context.Background(), types.SearchFilter{})
	require.NoError(t, err)
	require.Len(t, results, 3)
	// Files are read in name order.
	assert.Equal(t, []string{"111628", "16568", "27992"}, localIDs(results))

	hawks := results[0]
	assert.Equal(t, "aic:111628", hawks.GlobalID)
	assert.Equal(t, "Nighthawks", hawks.Title)
	require.NotNil(t, hawks.Description)
	assert.Contains(t, *hawks.Description, "restaurant")
	assert.Equal(t, []string{"Modernism", "Realism"}, hawks.Genres)
	assert.Equal(t, "https://www.artic.edu/iiif/2/831a05de-d3f6-f4fa-a460-23008dd58dda/full/843,/0/default.jpg", hawks.ImageURL)
	assert.Equal(t, "https://www.artic.edu/iiif/2/831a05de-d3f6-f4fa-a460-23008dd58dda/full/200,/0/default.jpg", hawks.ThumbnailURL)
	assert.Equal(t, []string{"https://www.artic.edu/iiif/2/a1b2/full/843,/0/default.jpg"}, hawks.AdditionalImages)
	assert.Equal(t, "https://www.artic.edu/artworks/111628", hawks.SourceURL)
	assert.Equal(t, "United States", hawks.Culture)
	assert.JSONEq(t, sampleArticNighthawks, string(hawks.RawMetadata))

	lilies := results[1]
	assert.Equal(t, "Water Lilies", lilies.Title, "first entry of a list title")
	assert.Nil(t, lilies.Description)
	require.Len(t, lilies.Artists, 1)
	assert.Equal(t, "Claude Monet", lilies.Artists[0].Name)
	assert.Equal(t, []string{"Impressionism"}, lilies.Genres)
	assert.True(t, lilies.IsPublicDomain)

	seurat := results[2]
	assert.Equal(t, "Untitled", seurat.Title)
	assert.Nil(t, seurat.DateStart)
	assert.Nil(t, seurat.DateEnd)
	require.Len(t, seurat.Artists, 1)
	assert.Equal(t, "Georges Seurat", seurat.Artists[0].Name)
	assert.Empty(t, seurat.ImageURL)
}

func TestArticSearchFilters(t *testing.T) {
	a := loadedArtic(t)
	tests := []struct {
		name   string
		filter types.SearchFilter
		want   []string
	}{
		{"keyword in description", types.SearchFilter{Query: "restaurant"}, []string{"111628"}},
		{"genre any of", types.SearchFilter{Genres: []string{"impressionism", "Realism"}}, []string{"111628", "16568"}},
		{"genre and date", types.SearchFilter{Genres: []string{"Realism", "Impressionism"}, DateRange: &types.DateRange{End: types.Year(1910)}}, []string{"16568"}},
		{"artist", types.SearchFilter{Artists: []string{"Claude Monet"}}, []string{"16568"}},
		{"medium", types.SearchFilter{Mediums: []string{"canvas"}}, []string{"111628"}},
		{"classification", types.SearchFilter{Classifications: []string{"Painting"}}, []string{"111628", "16568"}},
		{"has image", types.SearchFilter{HasImageOnly: true, Limit: 1}, []string{"111628"}},
		{"no match", types.SearchFilter{Query: "zeppelin"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := a.Search(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, localIDs(results))
		})
	}
}

func TestArticGlobalIDsStableAcrossLoads(t *testing.T) {
	a := loadedArtic(t)
	first, err := a.Search(context.Background(), types.SearchFilter{})
	require.NoError(t, err)

	_, err = a.LoadRawDataset(context.Background(), "")
	require.NoError(t, err)
	second, err := a.Search(context.Background(), types.SearchFilter{})
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := range first {
		assert.Equal(t, first[i].GlobalID, second[i].GlobalID)
		assert.False(t, seen[first[i].GlobalID], "duplicate global id %s", first[i].GlobalID)
		seen[first[i].GlobalID] = true
	}
}

func TestArticLoadMissingArtworksDir(t *testing.T) {
	a := loadedArtic(t)
	before, err := os.ReadFile(a.ProcessedCachePath())
	require.NoError(t, err)

	other := t.TempDir()
	_, err = a.LoadRawDataset(context.Background(), other)
	require.ErrorIs(t, err, ErrMissingSource)
	assert.Contains(t, err.Error(), filepath.Join("json", "artworks"))

	after, err := os.ReadFile(a.ProcessedCachePath())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestArticLoadInvalidDocumentKeepsCache(t *testing.T) {
	a := loadedArtic(t)
	writeFile(t, filepath.Join(a.DefaultSourcePath(), "json", "artworks", "99999.json"), `{"id": 99999, "title": `)

	_, err := a.LoadRawDataset(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidSource)
	assert.Contains(t, err.Error(), "99999.json")

	results, err := a.Search(context.Background(), types.SearchFilter{})
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestArticDataSourceSupportsEveryFacet(t *testing.T) {
	a := NewArtic(testPaths(t, ArticID))
	ds, err := a.DataSource(context.Background(), types.SearchFilter{Genres: []string{"Cubism"}})
	require.NoError(t, err)
	assert.Empty(t, ds.Unsupported)
	assert.Equal(t, "Art Institute of Chicago", ds.Name)
}
