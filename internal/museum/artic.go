// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package museum

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/museum-engine/internal/cache"
	"github.com/pdiddy/museum-engine/internal/logging"
	"github.com/pdiddy/museum-engine/internal/normalize"
	"github.com/pdiddy/museum-engine/pkg/types"
)

const (
	// ArticID is the museum id of the Art Institute of Chicago.
	ArticID = "aic"

	// ArticArtworksDir is the directory of per-artwork JSON documents the
	// AIC data dump must contain.
	ArticArtworksDir = "json/artworks"

	articImageURL     = "https://www.artic.edu/iiif/2/%s/full/843,/0/default.jpg"
	articThumbnailURL = "https://www.artic.edu/iiif/2/%s/full/200,/0/default.jpg"
	articArtworkURL   = "https://www.artic.edu/artworks/%s"
)

// Artic reads the Art Institute of Chicago data dump: one JSON document per
// artwork under json/artworks/. Older dumps wrap each document in a "data"
// envelope and write title and description as either a string or a list.
type Artic struct {
	identity
	paths Paths
}

// NewArtic returns the Art Institute of Chicago adapter.
func NewArtic(paths Paths) *Artic {
	return &Artic{
		identity: identity{id: ArticID, name: "Art Institute of Chicago"},
		paths:    paths,
	}
}

// ID returns the museum id.
func (a *Artic) ID() string { return a.id }

// Name returns the museum display name.
func (a *Artic) Name() string { return a.name }

// DefaultSourcePath returns the data dump root.
func (a *Artic) DefaultSourcePath() string { return a.paths.Source }

// ProcessedCachePath returns the local cache file.
func (a *Artic) ProcessedCachePath() string { return a.paths.Cache }

// LoadRawDataset validates sourcePath and rebuilds the cache from every
// JSON document in json/artworks/, in file name order.
func (a *Artic) LoadRawDataset(ctx context.Context, sourcePath string) (types.LoadResult, error) {
	if sourcePath == "" {
		sourcePath = a.paths.Source
	}
	artworksDir := filepath.Join(sourcePath, filepath.FromSlash(ArticArtworksDir))
	if err := a.requirePaths(sourcePath, artworksDir); err != nil {
		return types.LoadResult{}, err
	}

	ctx = logging.WithMuseum(ctx, a.id)
	return a.build(ctx, sourcePath, a.paths.Cache, func(w *cache.Writer) error {
		return a.readArtworks(ctx, artworksDir, w)
	})
}

func (a *Artic) readArtworks(ctx context.Context, dir string, w *cache.Writer) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return a.errorf("load", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return a.errorf("load", path, err)
		}
		rec, err := articRecord(data)
		if err != nil {
			return a.errorf("load", path, fmt.Errorf("%w: %v", ErrInvalidSource, err))
		}
		if err := w.Add(rec); err != nil {
			return err
		}
	}
	return nil
}

// articArtwork is the subset of an AIC artwork document the adapter reads.
type articArtwork struct {
	ID                   json.Number            `json:"id"`
	Title                normalize.StringOrList `json:"title"`
	Description          normalize.StringOrList `json:"description"`
	ArtistDisplay        string                 `json:"artist_display"`
	ArtistTitle          string                 `json:"artist_title"`
	ArtistTitles         []string               `json:"artist_titles"`
	DateStart            any                    `json:"date_start"`
	DateEnd              any                    `json:"date_end"`
	DateDisplay          string                 `json:"date_display"`
	MediumDisplay        string                 `json:"medium_display"`
	MaterialTitles       []string               `json:"material_titles"`
	StyleTitles          normalize.StringOrList `json:"style_titles"`
	ClassificationTitles normalize.StringOrList `json:"classification_titles"`
	TermTitles           []string               `json:"term_titles"`
	DepartmentTitle      string                 `json:"department_title"`
	PlaceOfOrigin        string                 `json:"place_of_origin"`
	CreditLine           string                 `json:"credit_line"`
	ProvenanceText       string                 `json:"provenance_text"`
	Dimensions           string                 `json:"dimensions"`
	IsPublicDomain       bool                   `json:"is_public_domain"`
	ImageID              string                 `json:"image_id"`
	AltImageIDs          []string               `json:"alt_image_ids"`
}

// articRecord decodes one artwork document. The document bytes are kept
// verbatim as raw metadata.
func articRecord(data []byte) (types.ArtworkResult, error) {
	doc := bytes.TrimSpace(data)
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(doc, &envelope); err != nil {
		return types.ArtworkResult{}, err
	}
	body := doc
	if len(envelope.Data) > 0 && envelope.Data[0] == '{' {
		body = envelope.Data
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	var art articArtwork
	if err := dec.Decode(&art); err != nil {
		return types.ArtworkResult{}, err
	}

	id := art.ID.String()
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return types.ArtworkResult{}, fmt.Errorf("artwork id %q is not an integer", id)
	}

	rec := types.ArtworkResult{
		LocalID:          id,
		Title:            normalize.Title(art.Title),
		Description:      normalize.Description(art.Description),
		Artists:          articArtists(art),
		AdditionalImages: []string{},
		Mediums:          normalize.Strings(art.MaterialTitles),
		MediumDisplay:    art.MediumDisplay,
		Genres:           normalize.Strings(art.StyleTitles),
		Classifications:  normalize.Strings(art.ClassificationTitles),
		Tags:             normalize.Strings(art.TermTitles),
		DateCreated:      art.DateDisplay,
		DateStart:        normalize.Year(art.DateStart),
		DateEnd:          normalize.Year(art.DateEnd),
		Dimensions:       art.Dimensions,
		Department:       art.DepartmentTitle,
		Culture:          art.PlaceOfOrigin,
		CreditLine:       art.CreditLine,
		Provenance:       art.ProvenanceText,
		IsPublicDomain:   art.IsPublicDomain,
		SourceURL:        fmt.Sprintf(articArtworkURL, id),
		RawMetadata:      json.RawMessage(doc),
	}
	if art.ImageID != "" {
		rec.ImageURL = fmt.Sprintf(articImageURL, art.ImageID)
		rec.ThumbnailURL = fmt.Sprintf(articThumbnailURL, art.ImageID)
	}
	for _, alt := range art.AltImageIDs {
		if alt = strings.TrimSpace(alt); alt != "" {
			rec.AdditionalImages = append(rec.AdditionalImages, fmt.Sprintf(articImageURL, alt))
		}
	}
	return rec, nil
}

// articArtists prefers the structured artist titles and falls back to the
// first line of the display string ("Name\nNationality, dates").
func articArtists(art articArtwork) []types.Artist {
	names := art.ArtistTitles
	if len(names) == 0 && art.ArtistTitle != "" {
		names = []string{art.ArtistTitle}
	}
	if len(names) == 0 && art.ArtistDisplay != "" {
		firstLine, _, _ := strings.Cut(art.ArtistDisplay, "\n")
		names = []string{firstLine}
	}

	artists := []types.Artist{}
	for _, n := range names {
		if name := normalize.ArtistName(n); name != "" {
			artists = append(artists, types.Artist{Name: name})
		}
	}
	return artists
}

// Search queries the AIC cache.
func (a *Artic) Search(ctx context.Context, filter types.SearchFilter) ([]types.ArtworkResult, error) {
	ctx = logging.WithMuseum(ctx, a.id)
	return a.search(ctx, a.paths.Cache, cacheQuery(filter))
}

// DataSource reports the cache a search with filter would read. AIC
// carries every facet.
func (a *Artic) DataSource(ctx context.Context, filter types.SearchFilter) (types.DataSource, error) {
	return a.dataSource(ctx, a.paths.Cache, a.paths.Source, nil)
}
