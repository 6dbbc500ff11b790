// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package museum

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/museum-engine/internal/cache"
	"github.com/pdiddy/museum-engine/internal/logging"
	"github.com/pdiddy/museum-engine/internal/normalize"
	"github.com/pdiddy/museum-engine/pkg/types"
)

const (
	// MetID is the museum id of The Metropolitan Museum of Art.
	MetID = "met"

	// MetManifest is the object listing the Met export must contain.
	MetManifest = "MetObjects.csv"

	metObjectURL = "https://www.metmuseum.org/art/collection/search/%s"
)

// Met CSV columns.
const (
	metColObjectID    = "Object ID"
	metColTitle       = "Title"
	metColArtist      = "Artist Display Name"
	metColRole        = "Artist Role"
	metColNationality = "Artist Nationality"
	metColBegin       = "Artist Begin Date"
	metColEnd         = "Artist End Date"
	metColDate        = "Object Date"
	metColDateBegin   = "Object Begin Date"
	metColDateEnd     = "Object End Date"
	metColMedium      = "Medium"
	metColDimensions  = "Dimensions"
	metColDepartment  = "Department"
	metColCulture     = "Culture"
	metColCredit      = "Credit Line"
	metColClass       = "Classification"
	metColTags        = "Tags"
	metColPublic      = "Is Public Domain"
	metColLink        = "Link Resource"
	metColImage       = "Primary Image"
	metColImageSmall  = "Primary Image Small"
	metColMoreImages  = "Additional Images"
)

// Met reads The Metropolitan Museum of Art open-access CSV export. The
// source directory must contain MetObjects.csv. Multi-artist columns are
// pipe-separated and aligned by position. The export carries no genres.
type Met struct {
	identity
	paths Paths
}

// NewMet returns the Met adapter.
func NewMet(paths Paths) *Met {
	return &Met{
		identity: identity{id: MetID, name: "The Metropolitan Museum of Art"},
		paths:    paths,
	}
}

// ID returns the museum id.
func (m *Met) ID() string { return m.id }

// Name returns the museum display name.
func (m *Met) Name() string { return m.name }

// DefaultSourcePath returns the directory holding MetObjects.csv.
func (m *Met) DefaultSourcePath() string { return m.paths.Source }

// ProcessedCachePath returns the local cache file.
func (m *Met) ProcessedCachePath() string { return m.paths.Cache }

// LoadRawDataset validates sourcePath and rebuilds the cache from
// MetObjects.csv. An empty sourcePath uses the default.
func (m *Met) LoadRawDataset(ctx context.Context, sourcePath string) (types.LoadResult, error) {
	if sourcePath == "" {
		sourcePath = m.paths.Source
	}
	manifest := filepath.Join(sourcePath, MetManifest)
	if err := m.requirePaths(sourcePath, manifest); err != nil {
		return types.LoadResult{}, err
	}

	ctx = logging.WithMuseum(ctx, m.id)
	return m.build(ctx, sourcePath, m.paths.Cache, func(w *cache.Writer) error {
		return m.readManifest(ctx, manifest, w)
	})
}

func (m *Met) readManifest(ctx context.Context, manifest string, w *cache.Writer) error {
	f, err := os.Open(manifest)
	if err != nil {
		return m.errorf("load", manifest, err)
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return m.errorf("load", manifest, fmt.Errorf("%w: reading header: %v", ErrInvalidSource, err))
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{metColObjectID, metColTitle} {
		if _, ok := cols[required]; !ok {
			return m.errorf("load", manifest, fmt.Errorf("%w: missing column %q", ErrInvalidSource, required))
		}
	}

	log := logging.FromContext(ctx)
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return m.errorf("load", manifest, fmt.Errorf("%w: %v", ErrInvalidSource, err))
		}
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		rec, err := metRecord(header, cols, row)
		if err != nil {
			return m.errorf("load", manifest, fmt.Errorf("line %d: %w", line, err))
		}
		if rec.LocalID == "" {
			log.Warn().Int("line", line).Msg("skipping row without object id")
			continue
		}
		if err := w.Add(rec); err != nil {
			return err
		}
	}
}

// metRecord maps one CSV row to a record. The raw metadata is the row as a
// column-to-value object.
func metRecord(header []string, cols map[string]int, row []string) (types.ArtworkResult, error) {
	get := func(col string) string {
		i, ok := cols[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	raw := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(row) {
			raw[h] = row[i]
		}
	}
	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return types.ArtworkResult{}, fmt.Errorf("encoding raw row: %w", err)
	}

	id := get(metColObjectID)
	rec := types.ArtworkResult{
		LocalID:          id,
		Title:            normalize.Title(get(metColTitle)),
		Artists:          metArtists(get(metColArtist), get(metColRole), get(metColNationality), get(metColBegin), get(metColEnd)),
		ImageURL:         get(metColImage),
		ThumbnailURL:     get(metColImageSmall),
		AdditionalImages: normalize.Split(get(metColMoreImages), "|"),
		Mediums:          normalize.Strings(get(metColMedium)),
		MediumDisplay:    get(metColMedium),
		Genres:           []string{},
		Classifications:  normalize.Split(get(metColClass), "|"),
		Tags:             normalize.Split(get(metColTags), "|"),
		DateCreated:      get(metColDate),
		DateStart:        normalize.ParseYear(get(metColDateBegin)),
		DateEnd:          normalize.ParseYear(get(metColDateEnd)),
		Dimensions:       get(metColDimensions),
		Department:       get(metColDepartment),
		Culture:          get(metColCulture),
		CreditLine:       get(metColCredit),
		IsPublicDomain:   strings.EqualFold(get(metColPublic), "true"),
		SourceURL:        get(metColLink),
		RawMetadata:      rawJSON,
	}
	if rec.SourceURL == "" && id != "" {
		rec.SourceURL = fmt.Sprintf(metObjectURL, id)
	}
	return rec, nil
}

// metArtists zips the pipe-separated artist columns.
func metArtists(names, roles, nationalities, begins, ends string) []types.Artist {
	artists := []types.Artist{}
	if strings.TrimSpace(names) == "" {
		return artists
	}
	roleList := strings.Split(roles, "|")
	natList := strings.Split(nationalities, "|")
	beginList := strings.Split(begins, "|")
	endList := strings.Split(ends, "|")

	for i, n := range strings.Split(names, "|") {
		name := normalize.ArtistName(n)
		if name == "" {
			continue
		}
		artists = append(artists, types.Artist{
			Name:        name,
			Role:        at(roleList, i),
			Nationality: at(natList, i),
			BirthDate:   at(beginList, i),
			DeathDate:   at(endList, i),
		})
	}
	return artists
}

func at(list []string, i int) string {
	if i < len(list) {
		return strings.TrimSpace(list[i])
	}
	return ""
}

// Search queries the Met cache.
func (m *Met) Search(ctx context.Context, filter types.SearchFilter) ([]types.ArtworkResult, error) {
	ctx = logging.WithMuseum(ctx, m.id)
	return m.search(ctx, m.paths.Cache, cacheQuery(filter))
}

// DataSource reports the cache a search with filter would read.
func (m *Met) DataSource(ctx context.Context, filter types.SearchFilter) (types.DataSource, error) {
	return m.dataSource(ctx, m.paths.Cache, m.paths.Source, unsupportedFacets(filter, types.FacetGenre))
}
