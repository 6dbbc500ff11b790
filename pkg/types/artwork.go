// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the museum-engine pipeline:
// the normalized artwork record, the unified search filter, and the
// configuration structs the CLI builds once and passes down.
package types

import "encoding/json"

// DefaultTitle is used when a source record carries no title.
const DefaultTitle = "Untitled"

// Artist is one credited maker of an artwork, in source order.
type Artist struct {
	// Name is the normalized display name (see normalize.ArtistName).
	Name string `json:"name" yaml:"name"`

	// Role is the attribution qualifier when the source gives one
	// (e.g. "artist", "maker", "Attributed to").
	Role string `json:"role,omitempty" yaml:"role,omitempty"`

	// Nationality as the source states it.
	Nationality string `json:"nationality,omitempty" yaml:"nationality,omitempty"`

	// BirthDate and DeathDate are kept as raw strings.
	BirthDate string `json:"birth_date,omitempty" yaml:"birth_date,omitempty"`
	DeathDate string `json:"death_date,omitempty" yaml:"death_date,omitempty"`
}

// ArtworkResult is one normalized artwork record. Instances are rebuilt from
// a museum's local cache on every search; they only become persistent when a
// batch is explicitly synced into the shared store.
type ArtworkResult struct {
	// GlobalID is GlobalID(MuseumID, LocalID), the persistence dedup key.
	GlobalID string `json:"global_id" yaml:"global_id"`

	// LocalID is the museum's own object identifier.
	LocalID string `json:"local_id" yaml:"local_id"`

	// MuseumID identifies the adapter that produced the record (e.g. "met").
	MuseumID string `json:"museum_id" yaml:"museum_id"`

	Title       string  `json:"title" yaml:"title"`
	Description *string `json:"description" yaml:"description"`

	Artists []Artist `json:"artists" yaml:"artists"`

	ImageURL         string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	ThumbnailURL     string   `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`
	AdditionalImages []string `json:"additional_images,omitempty" yaml:"additional_images,omitempty"`

	Mediums         []string `json:"mediums" yaml:"mediums"`
	MediumDisplay   string   `json:"medium_display,omitempty" yaml:"medium_display,omitempty"`
	Genres          []string `json:"genres" yaml:"genres"`
	Classifications []string `json:"classifications" yaml:"classifications"`
	Tags            []string `json:"tags" yaml:"tags"`

	// DateCreated is the source's raw date string, preserved unmodified.
	DateCreated string `json:"date_created,omitempty" yaml:"date_created,omitempty"`

	// DateStart and DateEnd are set only when the source gives an exact
	// integral year.
	DateStart *int `json:"date_start" yaml:"date_start"`
	DateEnd   *int `json:"date_end" yaml:"date_end"`

	Dimensions string `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Department string `json:"department,omitempty" yaml:"department,omitempty"`
	Culture    string `json:"culture,omitempty" yaml:"culture,omitempty"`
	CreditLine string `json:"credit_line,omitempty" yaml:"credit_line,omitempty"`
	Provenance string `json:"provenance,omitempty" yaml:"provenance,omitempty"`

	IsPublicDomain bool   `json:"is_public_domain" yaml:"is_public_domain"`
	SourceURL      string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// RawMetadata is the original source record, passed through untouched.
	RawMetadata json.RawMessage `json:"raw_metadata,omitempty" yaml:"-"`
}

// HasImage reports whether the record carries a primary image.
func (a ArtworkResult) HasImage() bool {
	return a.ImageURL != ""
}

// ArtistNames returns the artist names in source order.
func (a ArtworkResult) ArtistNames() []string {
	names := make([]string, 0, len(a.Artists))
	for _, artist := range a.Artists {
		names = append(names, artist.Name)
	}
	return names
}

// GlobalID composes the cross-museum identifier for a record. The result is a
// pure function of its inputs, so repeated loads and searches of the same
// record always agree.
func GlobalID(museumID, localID string) string {
	return museumID + ":" + localID
}
