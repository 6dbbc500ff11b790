// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/museum-engine/internal/logging"
	"github.com/pdiddy/museum-engine/pkg/types"
)

// ErrMissingGlobalID indicates a record that cannot be keyed.
var ErrMissingGlobalID = errors.New("record has no global id")

// SyncSummary holds the counts of one sync run.
type SyncSummary struct {
	RunID   string
	New     int
	Updated int
}

// Total returns the number of records written.
func (s SyncSummary) Total() int {
	return s.New + s.Updated
}

// SyncError reports the record that stopped a sync run. Records before
// Index were written; the rest were not attempted.
type SyncError struct {
	RunID    string
	Index    int
	GlobalID string
	MuseumID string
	Err      error
}

// Error implements the error interface.
func (e *SyncError) Error() string {
	return fmt.Sprintf("sync run %s: record %d (%s, museum %s): %v", e.RunID, e.Index, e.GlobalID, e.MuseumID, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *SyncError) Unwrap() error {
	return e.Err
}

// Sync upserts each result keyed by its global id, one record at a time in
// order. An existing row has every mutable field replaced and its
// last_synced_at stamped; created_at is kept. There is no transaction
// around the batch: the first failing record stops the run and the
// summary counts what was written before it. Retrying is safe because
// the upsert is idempotent.
func (s *Store) Sync(ctx context.Context, results []types.ArtworkResult) (SyncSummary, error) {
	summary := SyncSummary{RunID: uuid.NewString()}
	log := logging.FromContext(ctx).With().Str("run_id", summary.RunID).Logger()

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO sync_runs (id, started_at) VALUES (?, ?)`,
		summary.RunID, formatTime(time.Now())); err != nil {
		return summary, fmt.Errorf("recording sync run: %w", err)
	}

	for i, r := range results {
		existed, err := s.upsert(ctx, r, summary.RunID)
		if err != nil {
			serr := &SyncError{RunID: summary.RunID, Index: i, GlobalID: r.GlobalID, MuseumID: r.MuseumID, Err: err}
			log.Error().Err(err).Str("global_id", r.GlobalID).Int("index", i).Msg("sync stopped")
			s.finishRun(ctx, summary, r.GlobalID, err)
			return summary, serr
		}
		if existed {
			summary.Updated++
		} else {
			summary.New++
		}
	}

	s.finishRun(ctx, summary, "", nil)
	log.Info().Int("new", summary.New).Int("updated", summary.Updated).Msg("sync complete")
	return summary, nil
}

func (s *Store) upsert(ctx context.Context, r types.ArtworkResult, runID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if r.GlobalID == "" {
		return false, ErrMissingGlobalID
	}

	artists, err := jsonList(r.Artists)
	if err != nil {
		return false, fmt.Errorf("encoding artists: %w", err)
	}
	lists := make([]string, 0, 5)
	for _, l := range [][]string{r.AdditionalImages, r.Mediums, r.Genres, r.Classifications, r.Tags} {
		enc, err := jsonList(l)
		if err != nil {
			return false, fmt.Errorf("encoding list: %w", err)
		}
		lists = append(lists, enc)
	}

	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM artworks WHERE global_id = ?`, r.GlobalID).Scan(&exists)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("looking up %s: %w", r.GlobalID, err)
	}
	existed := err == nil

	now := formatTime(time.Now())
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO artworks (global_id, museum_id, local_id, title, description, artists,
			image_url, thumbnail_url, additional_images, mediums, medium_display, genres,
			classifications, tags, date_created, date_start, date_end, dimensions,
			department, culture, credit_line, provenance, is_public_domain, source_url,
			raw_metadata, created_at, last_synced_at, sync_run_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(global_id) DO UPDATE SET
			museum_id=excluded.museum_id, local_id=excluded.local_id,
			title=excluded.title, description=excluded.description,
			artists=excluded.artists, image_url=excluded.image_url,
			thumbnail_url=excluded.thumbnail_url, additional_images=excluded.additional_images,
			mediums=excluded.mediums, medium_display=excluded.medium_display,
			genres=excluded.genres, classifications=excluded.classifications,
			tags=excluded.tags, date_created=excluded.date_created,
			date_start=excluded.date_start, date_end=excluded.date_end,
			dimensions=excluded.dimensions, department=excluded.department,
			culture=excluded.culture, credit_line=excluded.credit_line,
			provenance=excluded.provenance, is_public_domain=excluded.is_public_domain,
			source_url=excluded.source_url, raw_metadata=excluded.raw_metadata,
			last_synced_at=excluded.last_synced_at, sync_run_id=excluded.sync_run_id`,
		r.GlobalID, r.MuseumID, r.LocalID, r.Title, nullString(r.Description), artists,
		r.ImageURL, r.ThumbnailURL, lists[0], lists[1], r.MediumDisplay, lists[2],
		lists[3], lists[4], r.DateCreated, nullInt(r.DateStart), nullInt(r.DateEnd), r.Dimensions,
		r.Department, r.Culture, r.CreditLine, r.Provenance, r.IsPublicDomain, r.SourceURL,
		rawOrSentinel(r.RawMetadata), now, now, runID)
	if err != nil {
		return false, fmt.Errorf("upserting %s: %w", r.GlobalID, err)
	}
	return existed, nil
}

// finishRun records the outcome of a run. It runs even when ctx was
// cancelled so the run row reflects what happened.
func (s *Store) finishRun(ctx context.Context, summary SyncSummary, failedAt string, runErr error) {
	var errText sql.NullString
	if runErr != nil {
		errText = sql.NullString{String: runErr.Error(), Valid: true}
	}
	var failed sql.NullString
	if failedAt != "" {
		failed = sql.NullString{String: failedAt, Valid: true}
	}

	_, err := s.db.ExecContext(context.WithoutCancel(ctx),
		`UPDATE sync_runs SET finished_at = ?, new_count = ?, updated_count = ?,
			failed_at_global_id = ?, error = ? WHERE id = ?`,
		formatTime(time.Now()), summary.New, summary.Updated, failed, errText, summary.RunID)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("run_id", summary.RunID).Msg("recording sync run outcome")
	}
}
