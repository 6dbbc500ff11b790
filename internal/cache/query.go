// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/museum-engine/internal/normalize"
	"github.com/pdiddy/museum-engine/pkg/types"
)

// Query is the cache's own query shape. Values within one facet are OR'ed;
// facets are AND'ed with each other and with Text.
type Query struct {
	// Text is a substring matched against title, description, artist names,
	// mediums, culture and tags. Matching uses Unicode case folding.
	Text string

	// Artists are substrings of normalized artist names, matched case-folded.
	Artists []string

	// Genres and Classifications match list entries exactly, ignoring case.
	Genres          []string
	Classifications []string

	// Mediums are substrings of a medium entry or the medium display label,
	// matched case-folded.
	Mediums []string

	// YearFrom and YearTo bound an inclusive overlap with
	// [date_start, date_end]. Records with no year never match a bound.
	YearFrom *int
	YearTo   *int

	HasImage bool

	Limit int
}

// Search runs q and returns matching records in load order. The returned
// records carry LocalID but not MuseumID or GlobalID; the adapter sets those.
func (c *Cache) Search(ctx context.Context, q Query) ([]types.ArtworkResult, error) {
	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(`SELECT local_id, title, description, artists, image_url, thumbnail_url,
			additional_images, mediums, medium_display, genres, classifications, tags,
			date_created, date_start, date_end, dimensions, department, culture,
			credit_line, provenance, is_public_domain, source_url, raw
		FROM artworks
		WHERE 1=1`)

	if text := strings.TrimSpace(q.Text); text != "" {
		qb.WriteString(` AND search_text LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(normalize.Fold(text)))
	}

	if len(q.Artists) > 0 {
		clauses := make([]string, len(q.Artists))
		for i, a := range q.Artists {
			clauses[i] = `artist_names LIKE ? ESCAPE '\'`
			args = append(args, likePattern(normalize.Fold(a)))
		}
		qb.WriteString(` AND (` + strings.Join(clauses, " OR ") + `)`)
	}

	args = appendListFacet(&qb, args, "genres", q.Genres)
	args = appendListFacet(&qb, args, "classifications", q.Classifications)

	if len(q.Mediums) > 0 {
		clauses := make([]string, len(q.Mediums))
		for i, m := range q.Mediums {
			clauses[i] = `medium_names LIKE ? ESCAPE '\'`
			args = append(args, likePattern(normalize.Fold(m)))
		}
		qb.WriteString(` AND (` + strings.Join(clauses, " OR ") + `)`)
	}

	if q.YearFrom != nil {
		qb.WriteString(` AND COALESCE(date_end, date_start) >= ?`)
		args = append(args, *q.YearFrom)
	}
	if q.YearTo != nil {
		qb.WriteString(` AND COALESCE(date_start, date_end) <= ?`)
		args = append(args, *q.YearTo)
	}

	if q.HasImage {
		qb.WriteString(` AND image_url IS NOT NULL AND image_url != ''`)
	}

	qb.WriteString(` ORDER BY rowid`)
	if q.Limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}

	rows, err := c.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying cache %s: %w", c.path, err)
	}
	defer rows.Close()

	results := []types.ArtworkResult{}
	for rows.Next() {
		r, err := scanArtwork(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning cache row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// appendListFacet adds an OR group matching any of values against the JSON
// list column.
func appendListFacet(qb *strings.Builder, args []any, column string, values []string) []any {
	if len(values) == 0 {
		return args
	}
	clauses := make([]string, len(values))
	for i, v := range values {
		clauses[i] = `EXISTS (SELECT 1 FROM json_each(artworks.` + column + `) WHERE lower(value) = lower(?))`
		args = append(args, strings.TrimSpace(v))
	}
	qb.WriteString(` AND (` + strings.Join(clauses, " OR ") + `)`)
	return args
}

// likePattern wraps s for a substring LIKE match, escaping LIKE wildcards.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

func scanArtwork(rows *sql.Rows) (types.ArtworkResult, error) {
	var (
		r                                            types.ArtworkResult
		description                                  sql.NullString
		artists, additional, mediums, genres         string
		classifications, tags                        string
		imageURL, thumbURL, mediumDisplay            sql.NullString
		dateCreated, dimensions, department, culture sql.NullString
		creditLine, provenance, sourceURL, raw       sql.NullString
		dateStart, dateEnd                           sql.NullInt64
	)
	err := rows.Scan(&r.LocalID, &r.Title, &description, &artists, &imageURL, &thumbURL,
		&additional, &mediums, &mediumDisplay, &genres, &classifications, &tags,
		&dateCreated, &dateStart, &dateEnd, &dimensions, &department, &culture,
		&creditLine, &provenance, &r.IsPublicDomain, &sourceURL, &raw)
	if err != nil {
		return r, err
	}

	if description.Valid {
		d := description.String
		r.Description = &d
	}
	r.ImageURL = imageURL.String
	r.ThumbnailURL = thumbURL.String
	r.MediumDisplay = mediumDisplay.String
	r.DateCreated = dateCreated.String
	r.Dimensions = dimensions.String
	r.Department = department.String
	r.Culture = culture.String
	r.CreditLine = creditLine.String
	r.Provenance = provenance.String
	r.SourceURL = sourceURL.String
	if dateStart.Valid {
		n := int(dateStart.Int64)
		r.DateStart = &n
	}
	if dateEnd.Valid {
		n := int(dateEnd.Int64)
		r.DateEnd = &n
	}
	if raw.Valid && raw.String != "null" {
		r.RawMetadata = json.RawMessage(raw.String)
	}

	if err := json.Unmarshal([]byte(artists), &r.Artists); err != nil {
		return r, fmt.Errorf("decoding artists of %s: %w", r.LocalID, err)
	}
	for _, list := range []struct {
		src string
		dst *[]string
	}{
		{additional, &r.AdditionalImages},
		{mediums, &r.Mediums},
		{genres, &r.Genres},
		{classifications, &r.Classifications},
		{tags, &r.Tags},
	} {
		if err := decodeList(list.src, list.dst); err != nil {
			return r, fmt.Errorf("decoding list of %s: %w", r.LocalID, err)
		}
	}
	if r.Artists == nil {
		r.Artists = []types.Artist{}
	}
	return r, nil
}

func decodeList(src string, dst *[]string) error {
	if src == "" {
		*dst = []string{}
		return nil
	}
	if err := json.Unmarshal([]byte(src), dst); err != nil {
		return err
	}
	if *dst == nil {
		*dst = []string{}
	}
	return nil
}
