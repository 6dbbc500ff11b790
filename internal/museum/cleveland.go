// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package museum

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/museum-engine/internal/cache"
	"github.com/pdiddy/museum-engine/internal/logging"
	"github.com/pdiddy/museum-engine/internal/normalize"
	"github.com/pdiddy/museum-engine/pkg/types"
)

const (
	// ClevelandID is the museum id of the Cleveland Museum of Art.
	ClevelandID = "cma"

	// ClevelandDataFile is the JSON array of objects the CMA open access
	// export must contain.
	ClevelandDataFile = "data/data.json"

	clevelandArtworkURL  = "https://clevelandart.org/art/%s"
	clevelandOpenLicense = "CC0"
)

// Cleveland reads the Cleveland Museum of Art open access export, a single
// JSON array streamed element by element. Creators are structured objects,
// culture is a list, and provenance is a list of entries.
type Cleveland struct {
	identity
	paths Paths
}

// NewCleveland returns the Cleveland Museum of Art adapter.
func NewCleveland(paths Paths) *Cleveland {
	return &Cleveland{
		identity: identity{id: ClevelandID, name: "Cleveland Museum of Art"},
		paths:    paths,
	}
}

// ID returns the museum id.
func (c *Cleveland) ID() string { return c.id }

// Name returns the museum display name.
func (c *Cleveland) Name() string { return c.name }

// DefaultSourcePath returns the export root.
func (c *Cleveland) DefaultSourcePath() string { return c.paths.Source }

// ProcessedCachePath returns the local cache file.
func (c *Cleveland) ProcessedCachePath() string { return c.paths.Cache }

// LoadRawDataset validates sourcePath and rebuilds the cache from
// data/data.json.
func (c *Cleveland) LoadRawDataset(ctx context.Context, sourcePath string) (types.LoadResult, error) {
	if sourcePath == "" {
		sourcePath = c.paths.Source
	}
	dataFile := filepath.Join(sourcePath, filepath.FromSlash(ClevelandDataFile))
	if err := c.requirePaths(sourcePath, dataFile); err != nil {
		return types.LoadResult{}, err
	}

	ctx = logging.WithMuseum(ctx, c.id)
	return c.build(ctx, sourcePath, c.paths.Cache, func(w *cache.Writer) error {
		return c.readData(ctx, dataFile, w)
	})
}

func (c *Cleveland) readData(ctx context.Context, path string, w *cache.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return c.errorf("load", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(bufio.NewReader(f))
	tok, err := dec.Token()
	if err != nil {
		return c.errorf("load", path, fmt.Errorf("%w: %v", ErrInvalidSource, err))
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return c.errorf("load", path, fmt.Errorf("%w: expected a JSON array", ErrInvalidSource))
	}

	for i := 0; dec.More(); i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return c.errorf("load", path, fmt.Errorf("%w: element %d: %v", ErrInvalidSource, i, err))
		}
		rec, err := clevelandRecord(raw)
		if err != nil {
			return c.errorf("load", path, fmt.Errorf("%w: element %d: %v", ErrInvalidSource, i, err))
		}
		if err := w.Add(rec); err != nil {
			return err
		}
	}
	return nil
}

type clevelandArtwork struct {
	ID              json.Number            `json:"id"`
	AccessionNumber string                 `json:"accession_number"`
	Title           normalize.StringOrList `json:"title"`
	Description     normalize.StringOrList `json:"description"`
	CreationDate    string                 `json:"creation_date"`
	DateEarliest    any                    `json:"creation_date_earliest"`
	DateLatest      any                    `json:"creation_date_latest"`
	Creators        []clevelandCreator     `json:"creators"`
	Type            string                 `json:"type"`
	Technique       string                 `json:"technique"`
	Department      string                 `json:"department"`
	Culture         normalize.StringOrList `json:"culture"`
	Measurements    string                 `json:"measurements"`
	CreditLine      string                 `json:"creditline"`
	Provenance      json.RawMessage        `json:"provenance"`
	ShareLicense    string                 `json:"share_license_status"`
	Images          clevelandImages        `json:"images"`
	AlternateImages []clevelandImages      `json:"alternate_images"`
	URL             string                 `json:"url"`
}

type clevelandCreator struct {
	Description string `json:"description"`
	Role        string `json:"role"`
	BirthYear   string `json:"birth_year"`
	DeathYear   string `json:"death_year"`
}

type clevelandImages struct {
	Web   *clevelandImage `json:"web"`
	Print *clevelandImage `json:"print"`
	Full  *clevelandImage `json:"full"`
}

type clevelandImage struct {
	URL string `json:"url"`
}

type clevelandProvenance struct {
	Description string `json:"description"`
	Date        string `json:"date"`
}

func clevelandRecord(raw json.RawMessage) (types.ArtworkResult, error) {
	var art clevelandArtwork
	if err := json.Unmarshal(raw, &art); err != nil {
		return types.ArtworkResult{}, err
	}
	id := art.ID.String()
	if id == "" {
		return types.ArtworkResult{}, fmt.Errorf("object without id")
	}

	rec := types.ArtworkResult{
		LocalID:          id,
		Title:            normalize.Title(art.Title),
		Description:      normalize.Description(art.Description),
		Artists:          clevelandArtists(art.Creators),
		AdditionalImages: []string{},
		Mediums:          normalize.Strings(art.Technique),
		MediumDisplay:    art.Technique,
		Genres:           []string{},
		Classifications:  normalize.Strings(art.Type),
		Tags:             []string{},
		DateCreated:      art.CreationDate,
		DateStart:        normalize.Year(art.DateEarliest),
		DateEnd:          normalize.Year(art.DateLatest),
		Dimensions:       art.Measurements,
		Department:       art.Department,
		Culture:          strings.Join(normalize.Strings(art.Culture), "; "),
		CreditLine:       art.CreditLine,
		Provenance:       clevelandProvenanceText(art.Provenance),
		IsPublicDomain:   strings.EqualFold(art.ShareLicense, clevelandOpenLicense),
		SourceURL:        art.URL,
		RawMetadata:      raw,
	}
	if rec.SourceURL == "" && art.AccessionNumber != "" {
		rec.SourceURL = fmt.Sprintf(clevelandArtworkURL, art.AccessionNumber)
	}
	rec.ImageURL, rec.ThumbnailURL = art.Images.urls()
	for _, alt := range art.AlternateImages {
		if u, _ := alt.urls(); u != "" {
			rec.AdditionalImages = append(rec.AdditionalImages, u)
		}
	}
	return rec, nil
}

// urls returns the primary image (print size, else web) and the thumbnail
// (web size).
func (i clevelandImages) urls() (image, thumbnail string) {
	if i.Web != nil {
		image, thumbnail = i.Web.URL, i.Web.URL
	}
	if i.Print != nil && i.Print.URL != "" {
		image = i.Print.URL
	}
	if image == "" && i.Full != nil {
		image = i.Full.URL
	}
	return image, thumbnail
}

// clevelandArtists reads creator descriptions such as
// "Vincent van Gogh (Dutch, 1853–1890)".
func clevelandArtists(creators []clevelandCreator) []types.Artist {
	artists := []types.Artist{}
	for _, c := range creators {
		name := normalize.ArtistName(c.Description)
		if name == "" {
			continue
		}
		artists = append(artists, types.Artist{
			Name:      name,
			Role:      c.Role,
			BirthDate: c.BirthYear,
			DeathDate: c.DeathYear,
		})
	}
	return artists
}

// clevelandProvenanceText flattens provenance, which is a list of entries in
// current exports and a plain string in older ones.
func clevelandProvenanceText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var entries []clevelandProvenance
	if err := json.Unmarshal(raw, &entries); err == nil {
		parts := make([]string, 0, len(entries))
		for _, e := range entries {
			d := strings.TrimSpace(e.Description)
			if d == "" {
				continue
			}
			if e.Date != "" {
				d = e.Date + ": " + d
			}
			parts = append(parts, d)
		}
		return strings.Join(parts, "; ")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return ""
}

// Search queries the CMA cache.
func (c *Cleveland) Search(ctx context.Context, filter types.SearchFilter) ([]types.ArtworkResult, error) {
	ctx = logging.WithMuseum(ctx, c.id)
	return c.search(ctx, c.paths.Cache, cacheQuery(filter))
}

// DataSource reports the cache a search with filter would read.
func (c *Cleveland) DataSource(ctx context.Context, filter types.SearchFilter) (types.DataSource, error) {
	return c.dataSource(ctx, c.paths.Cache, c.paths.Source, unsupportedFacets(filter, types.FacetGenre))
}
