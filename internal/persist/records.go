// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/museum-engine/pkg/types"
)

// Record is a synced artwork with its bookkeeping columns.
type Record struct {
	types.ArtworkResult
	CreatedAt    time.Time `json:"created_at"`
	LastSyncedAt time.Time `json:"last_synced_at"`
	SyncRunID    string    `json:"sync_run_id"`
}

// SyncRun is one recorded sync run.
type SyncRun struct {
	ID               string
	StartedAt        time.Time
	FinishedAt       time.Time
	New              int
	Updated          int
	FailedAtGlobalID string
	Error            string
}

const recordColumns = `global_id, museum_id, local_id, title, description, artists,
	image_url, thumbnail_url, additional_images, mediums, medium_display, genres,
	classifications, tags, date_created, date_start, date_end, dimensions,
	department, culture, credit_line, provenance, is_public_domain, source_url,
	raw_metadata, created_at, last_synced_at, sync_run_id`

// Get returns the synced record with globalID.
func (s *Store) Get(ctx context.Context, globalID string) (Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM artworks WHERE global_id = ?`, globalID)
	if err != nil {
		return Record{}, fmt.Errorf("querying %s: %w", globalID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("%s: %w", globalID, ErrNotFound)
	}
	return scanRecord(rows)
}

// List returns synced records, most recently synced first. An empty
// museumID lists every museum; limit <= 0 returns all rows.
func (s *Store) List(ctx context.Context, museumID string, limit int) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM artworks`
	var args []any
	if museumID != "" {
		query += ` WHERE museum_id = ?`
		args = append(args, museumID)
	}
	query += ` ORDER BY last_synced_at DESC, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of synced records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM artworks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// Runs returns recorded sync runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]SyncRun, error) {
	query := `SELECT id, started_at, finished_at, new_count, updated_count,
			failed_at_global_id, error
		FROM sync_runs ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sync runs: %w", err)
	}
	defer rows.Close()

	var runs []SyncRun
	for rows.Next() {
		var (
			run                         SyncRun
			started                     string
			finished, failedAt, errText sql.NullString
		)
		if err := rows.Scan(&run.ID, &started, &finished, &run.New, &run.Updated, &failedAt, &errText); err != nil {
			return nil, fmt.Errorf("scanning sync run: %w", err)
		}
		run.StartedAt = parseTime(started)
		run.FinishedAt = parseTime(finished.String)
		run.FailedAtGlobalID = failedAt.String
		run.Error = errText.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		rec                                          Record
		description                                  sql.NullString
		artists, additional, mediums, genres         string
		classifications, tags, raw                   string
		imageURL, thumbURL, mediumDisplay            sql.NullString
		dateCreated, dimensions, department, culture sql.NullString
		creditLine, provenance, sourceURL            sql.NullString
		dateStart, dateEnd                           sql.NullInt64
		created, synced                              string
	)
	r := &rec.ArtworkResult
	err := rows.Scan(&r.GlobalID, &r.MuseumID, &r.LocalID, &r.Title, &description, &artists,
		&imageURL, &thumbURL, &additional, &mediums, &mediumDisplay, &genres,
		&classifications, &tags, &dateCreated, &dateStart, &dateEnd, &dimensions,
		&department, &culture, &creditLine, &provenance, &r.IsPublicDomain, &sourceURL,
		&raw, &created, &synced, &rec.SyncRunID)
	if err != nil {
		return rec, fmt.Errorf("scanning record: %w", err)
	}

	if description.Valid {
		d := description.String
		r.Description = &d
	}
	if dateStart.Valid {
		n := int(dateStart.Int64)
		r.DateStart = &n
	}
	if dateEnd.Valid {
		n := int(dateEnd.Int64)
		r.DateEnd = &n
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
	r.RawMetadata = json.RawMessage(raw)
	rec.CreatedAt = parseTime(created)
	rec.LastSyncedAt = parseTime(synced)

	if err := json.Unmarshal([]byte(artists), &r.Artists); err != nil {
		return rec, fmt.Errorf("decoding artists of %s: %w", r.GlobalID, err)
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
		if err := json.Unmarshal([]byte(list.src), list.dst); err != nil {
			return rec, fmt.Errorf("decoding list of %s: %w", r.GlobalID, err)
		}
	}
	return rec, nil
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
