// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DefaultLimit is the per-museum result cap used when a filter leaves Limit unset.
const DefaultLimit = 20

// Facet names used in diagnostics and error messages.
const (
	FacetGenre          = "genre"
	FacetArtist         = "artist"
	FacetMedium         = "medium"
	FacetClassification = "classification"
	FacetDateRange      = "date_range"
)

// DateRange is an inclusive year range. A nil bound is open; year 0 and
// negative (BCE) years are valid bounds.
type DateRange struct {
	Start *int `json:"start,omitempty" yaml:"start,omitempty"`
	End   *int `json:"end,omitempty" yaml:"end,omitempty"`
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// Year returns a pointer to n, for optional year fields.
func Year(n int) *int {
	return &n
}

// SearchFilter is the unified query every adapter translates into its own
// query shape.
type SearchFilter struct {
	// Query is a keyword matched against titles, descriptions, artists,
	// mediums, cultures and tags. Empty matches everything.
	Query string `json:"query,omitempty" yaml:"query,omitempty"`

	// Limit caps the results of each museum, not of the whole search.
	Limit int `json:"limit" yaml:"limit"`

	// Museums restricts the search to these museum ids. Empty means all.
	Museums []string `json:"museums,omitempty" yaml:"museums,omitempty"`

	Genres          []string `json:"genres,omitempty" yaml:"genres,omitempty"`
	Artists         []string `json:"artists,omitempty" yaml:"artists,omitempty"`
	Mediums         []string `json:"mediums,omitempty" yaml:"mediums,omitempty"`
	Classifications []string `json:"classifications,omitempty" yaml:"classifications,omitempty"`

	DateRange *DateRange `json:"date_range,omitempty" yaml:"date_range,omitempty"`

	HasImageOnly bool `json:"has_image_only,omitempty" yaml:"has_image_only,omitempty"`
}

// EffectiveLimit returns Limit, or DefaultLimit when Limit is not positive.
func (f SearchFilter) EffectiveLimit() int {
	if f.Limit <= 0 {
		return DefaultLimit
	}
	return f.Limit
}

// Facets returns the names of the facet filters that are set.
func (f SearchFilter) Facets() []string {
	var facets []string
	if len(f.Genres) > 0 {
		facets = append(facets, FacetGenre)
	}
	if len(f.Artists) > 0 {
		facets = append(facets, FacetArtist)
	}
	if len(f.Mediums) > 0 {
		facets = append(facets, FacetMedium)
	}
	if len(f.Classifications) > 0 {
		facets = append(facets, FacetClassification)
	}
	if f.DateRange != nil && !f.DateRange.IsZero() {
		facets = append(facets, FacetDateRange)
	}
	return facets
}

// Includes reports whether museumID is selected by the filter.
func (f SearchFilter) Includes(museumID string) bool {
	if len(f.Museums) == 0 {
		return true
	}
	for _, m := range f.Museums {
		if m == museumID {
			return true
		}
	}
	return false
}
