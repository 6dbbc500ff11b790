// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package museum

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/museum-engine/pkg/types"
)

const sampleMetCSV = "\ufeff" + `Object ID,Is Public Domain,Department,Title,Culture,Artist Role,Artist Display Name,Artist Nationality,Artist Begin Date,Artist End Date,Object Date,Object Begin Date,Object End Date,Medium,Dimensions,Credit Line,Classification,Link Resource,Tags,Primary Image,Primary Image Small
436535,True,European Paintings,Wheat Field with Cypresses,,Artist,"Gogh, Vincent van",Dutch,1853,1890,1889,1889,1889,Oil on canvas,28 7/8 x 36 3/4 in.,"Purchase, The Annenberg Foundation Gift, 1993",Paintings,http://www.metmuseum.org/art/collection/search/436535,Landscapes|Cypresses,https://images.metmuseum.org/436535.jpg,https://images.metmuseum.org/436535-small.jpg
45434,True,Asian Art,The Great Wave off Kanagawa,Japan,Artist|Publisher,Katsushika Hokusai|Nishimuraya Yohachi,Japanese|Japanese,1760|,1849|,ca. 1830–32,1830,1832,Polychrome woodblock print; ink and color on paper,10 1/8 x 14 15/16 in.,"H. O. Havemeyer Collection, Bequest of Mrs. H. O. Havemeyer, 1929",Prints,,Waves|Boats,,
10001,False,American Wing,,,,,,,,19th century,1800.5,,Earthenware,,Gift,Ceramics,,,,
`

func writeMetExport(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, MetManifest), sampleMetCSV)
}

func loadedMet(t *testing.T) *Met {
	t.Helper()
	m := NewMet(testPaths(t, MetID))
	writeMetExport(t, m.DefaultSourcePath())
	result, err := m.LoadRawDataset(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 3, result.RecordCount)
	return m
}

func TestMetLoadAndSearch(t *testing.T) {
	m := loadedMet(t)

	results, err := m.Search(context.Background(), types.SearchFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"436535", "45434", "10001"}, localIDs(results))

	wheat := results[0]
	assert.Equal(t, "met:436535", wheat.GlobalID)
	assert.Equal(t, MetID, wheat.MuseumID)
	assert.Equal(t, "Wheat Field with Cypresses", wheat.Title)
	require.Len(t, wheat.Artists, 1)
	assert.Equal(t, "Vincent van Gogh", wheat.Artists[0].Name)
	assert.Equal(t, "Dutch", wheat.Artists[0].Nationality)
	assert.Equal(t, 1889, *wheat.DateStart)
	assert.True(t, wheat.IsPublicDomain)
	assert.Equal(t, []string{"Landscapes", "Cypresses"}, wheat.Tags)
	assert.Equal(t, "https://images.metmuseum.org/436535.jpg", wheat.ImageURL)
	assert.Nil(t, wheat.Description)
	assert.Equal(t, []string{}, wheat.Genres)

	var raw map[string]string
	require.NoError(t, json.Unmarshal(wheat.RawMetadata, &raw))
	assert.Equal(t, "436535", raw["Object ID"], "BOM must be stripped from the first column name")

	wave := results[1]
	require.Len(t, wave.Artists, 2)
	assert.Equal(t, "Nishimuraya Yohachi", wave.Artists[1].Name)
	assert.Equal(t, "Publisher", wave.Artists[1].Role)
	assert.Equal(t, "https://www.metmuseum.org/art/collection/search/45434", wave.SourceURL)

	pot := results[2]
	assert.Equal(t, "Untitled", pot.Title)
	assert.Nil(t, pot.DateStart, "fractional year must not survive")
	assert.Equal(t, "19th century", pot.DateCreated)
	assert.False(t, pot.IsPublicDomain)
}

func TestMetSearchFilters(t *testing.T) {
	m := loadedMet(t)
	tests := []struct {
		name   string
		filter types.SearchFilter
		want   []string
	}{
		{"keyword", types.SearchFilter{Query: "wave"}, []string{"45434"}},
		{"artist in last first form", types.SearchFilter{Artists: []string{"Hokusai, Katsushika"}}, []string{"45434"}},
		{"classification", types.SearchFilter{Classifications: []string{"paintings"}}, []string{"436535"}},
		{"genre unsupported", types.SearchFilter{Genres: []string{"Post-Impressionism"}}, []string{}},
		{"date range", types.SearchFilter{DateRange: &types.DateRange{Start: types.Year(1800), End: types.Year(1850)}}, []string{"45434"}},
		{"has image", types.SearchFilter{HasImageOnly: true}, []string{"436535"}},
		{"limit", types.SearchFilter{Limit: 1}, []string{"436535"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := m.Search(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, localIDs(results))
		})
	}
}

func TestMetLoadMissingManifestLeavesCacheUntouched(t *testing.T) {
	m := loadedMet(t)
	before, err := os.ReadFile(m.ProcessedCachePath())
	require.NoError(t, err)

	emptySource := filepath.Join(t.TempDir(), "met-export")
	require.NoError(t, os.MkdirAll(emptySource, 0o755))

	_, err = m.LoadRawDataset(context.Background(), emptySource)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSource)

	var me *Error
	require.ErrorAs(t, err, &me)
	assert.Equal(t, MetID, me.MuseumID)
	assert.Equal(t, m.Name(), me.Name)
	assert.Equal(t, filepath.Join(emptySource, MetManifest), me.Path)
	assert.Contains(t, err.Error(), MetManifest)

	after, err := os.ReadFile(m.ProcessedCachePath())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMetLoadMissingSourceDir(t *testing.T) {
	m := NewMet(testPaths(t, MetID))
	_, err := m.LoadRawDataset(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingSource)

	var me *Error
	require.ErrorAs(t, err, &me)
	assert.Equal(t, m.DefaultSourcePath(), me.Path)

	_, statErr := os.Stat(m.ProcessedCachePath())
	assert.True(t, os.IsNotExist(statErr), "no cache may be written")
}

func TestMetLoadMissingColumn(t *testing.T) {
	m := NewMet(testPaths(t, MetID))
	writeFile(t, filepath.Join(m.DefaultSourcePath(), MetManifest), "Title,Medium\nA,Oil\n")

	_, err := m.LoadRawDataset(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidSource)
	assert.Contains(t, err.Error(), `"Object ID"`)
}

func TestMetDataSource(t *testing.T) {
	m := NewMet(testPaths(t, MetID))

	ds, err := m.DataSource(context.Background(), types.SearchFilter{Genres: []string{"Cubism"}})
	require.NoError(t, err)
	assert.False(t, ds.Ready)
	assert.Equal(t, m.DefaultSourcePath(), ds.SourcePath)
	assert.Equal(t, []string{types.FacetGenre}, ds.Unsupported)

	writeMetExport(t, m.DefaultSourcePath())
	_, err = m.LoadRawDataset(context.Background(), "")
	require.NoError(t, err)

	ds, err = m.DataSource(context.Background(), types.SearchFilter{})
	require.NoError(t, err)
	assert.True(t, ds.Ready)
	assert.Equal(t, 3, ds.RecordCount)
	assert.Equal(t, types.SourceLocalCache, ds.Kind)
	assert.Equal(t, m.ProcessedCachePath(), ds.CachePath)
	assert.Empty(t, ds.Unsupported)
}
