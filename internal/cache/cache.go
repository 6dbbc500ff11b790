// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache implements the per-museum local cache: one SQLite file per
// museum, written in full by a load and read by that museum's adapter during
// search. Adapters compose it; nothing else opens a cache file.
package cache

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/museum-engine/internal/normalize"
	"github.com/pdiddy/museum-engine/pkg/types"
)

// ErrNotLoaded is returned when a cache file does not exist yet.
var ErrNotLoaded = errors.New("cache not loaded")

const (
	metaSourcePath  = "source_path"
	metaLoadedAt    = "loaded_at"
	metaRecordCount = "record_count"

	tempSuffix = ".loading"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS artworks (
		rowid INTEGER PRIMARY KEY AUTOINCREMENT,
		local_id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		description TEXT,
		artists TEXT NOT NULL,
		artist_names TEXT NOT NULL,
		medium_names TEXT NOT NULL,
		search_text TEXT NOT NULL,
		image_url TEXT,
		thumbnail_url TEXT,
		additional_images TEXT,
		mediums TEXT NOT NULL,
		medium_display TEXT,
		genres TEXT NOT NULL,
		classifications TEXT NOT NULL,
		tags TEXT NOT NULL,
		date_created TEXT,
		date_start INTEGER,
		date_end INTEGER,
		dimensions TEXT,
		department TEXT,
		culture TEXT,
		credit_line TEXT,
		provenance TEXT,
		is_public_domain INTEGER NOT NULL DEFAULT 0,
		source_url TEXT,
		raw TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_artworks_date ON artworks(date_start, date_end)`,
	`CREATE TABLE IF NOT EXISTS cache_meta (
		key TEXT PRIMARY KEY,
		value TEXT
	)`,
}

// Info describes a cache file without reading its records.
type Info struct {
	Path        string
	Exists      bool
	RecordCount int
	LoadedAt    time.Time
	SourcePath  string
}

// Writer receives records during Build.
type Writer struct {
	stmt  *sql.Stmt
	ctx   context.Context
	count int
}

// Add inserts one record. A later record with the same local id replaces
// the earlier one.
func (w *Writer) Add(rec types.ArtworkResult) error {
	if rec.LocalID == "" {
		return fmt.Errorf("record %q has no local id", rec.Title)
	}
	artistNames := normalize.Fold(strings.Join(rec.ArtistNames(), "|"))
	mediumNames := normalize.Fold(strings.Join(append([]string{rec.MediumDisplay}, rec.Mediums...), "|"))
	raw := string(rec.RawMetadata)
	if raw == "" {
		raw = "null"
	}
	_, err := w.stmt.ExecContext(w.ctx,
		rec.LocalID, rec.Title, nullString(rec.Description),
		jsonList(rec.Artists), artistNames, mediumNames, searchText(rec),
		rec.ImageURL, rec.ThumbnailURL, jsonList(rec.AdditionalImages),
		jsonList(rec.Mediums), rec.MediumDisplay,
		jsonList(rec.Genres), jsonList(rec.Classifications), jsonList(rec.Tags),
		rec.DateCreated, nullInt(rec.DateStart), nullInt(rec.DateEnd),
		rec.Dimensions, rec.Department, rec.Culture, rec.CreditLine, rec.Provenance,
		rec.IsPublicDomain, rec.SourceURL, raw,
	)
	if err != nil {
		return fmt.Errorf("inserting record %s: %w", rec.LocalID, err)
	}
	w.count++
	return nil
}

// Count returns the number of records added so far.
func (w *Writer) Count() int {
	return w.count
}

// Build writes a fresh cache at path. fill streams records into the Writer.
// The database is built in a sibling temp file and renamed over path only
// after every record is committed, so a failed build leaves any existing
// cache untouched. There is no checkpointing: a failed build is rerun in full.
func Build(ctx context.Context, path, sourcePath string, fill func(w *Writer) error) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating cache directory: %w", err)
	}

	tmp := path + tempSuffix
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("removing stale temp cache %s: %w", tmp, err)
	}

	count, err := build(ctx, tmp, sourcePath, fill)
	if err != nil {
		os.Remove(tmp)
		return 0, err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("replacing cache %s: %w", path, err)
	}
	return count, nil
}

func build(ctx context.Context, tmp, sourcePath string, fill func(w *Writer) error) (int, error) {
	db, err := sql.Open("sqlite3", tmp+"?_journal_mode=DELETE")
	if err != nil {
		return 0, fmt.Errorf("opening cache: %w", err)
	}
	defer db.Close()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("creating cache schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO artworks (local_id, title, description, artists, artist_names,
			medium_names, search_text, image_url, thumbnail_url, additional_images, mediums, medium_display,
			genres, classifications, tags, date_created, date_start, date_end,
			dimensions, department, culture, credit_line, provenance,
			is_public_domain, source_url, raw)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(local_id) DO UPDATE SET
			title=excluded.title, description=excluded.description,
			artists=excluded.artists, artist_names=excluded.artist_names,
			medium_names=excluded.medium_names, search_text=excluded.search_text,
			image_url=excluded.image_url, thumbnail_url=excluded.thumbnail_url,
			additional_images=excluded.additional_images, mediums=excluded.mediums,
			medium_display=excluded.medium_display, genres=excluded.genres,
			classifications=excluded.classifications, tags=excluded.tags,
			date_created=excluded.date_created, date_start=excluded.date_start,
			date_end=excluded.date_end, dimensions=excluded.dimensions,
			department=excluded.department, culture=excluded.culture,
			credit_line=excluded.credit_line, provenance=excluded.provenance,
			is_public_domain=excluded.is_public_domain, source_url=excluded.source_url,
			raw=excluded.raw`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	w := &Writer{stmt: stmt, ctx: ctx}
	if err := fill(w); err != nil {
		return 0, err
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM artworks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}

	meta := map[string]string{
		metaSourcePath:  sourcePath,
		metaLoadedAt:    time.Now().UTC().Format(time.RFC3339Nano),
		metaRecordCount: strconv.Itoa(count),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cache_meta (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value=excluded.value`, k, v); err != nil {
			return 0, fmt.Errorf("writing cache metadata: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing cache: %w", err)
	}
	return count, nil
}

// Cache is an open, read-only local cache.
type Cache struct {
	db   *sql.DB
	path string
}

// Open opens the cache at path for reading. It returns ErrNotLoaded when
// no cache has been built there.
func Open(path string) (*Cache, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoaded
		}
		return nil, fmt.Errorf("checking cache %s: %w", path, err)
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return &Cache{db: db, path: path}, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Stat reports on the cache at path. A missing file is not an error.
func Stat(ctx context.Context, path string) (Info, error) {
	info := Info{Path: path}
	c, err := Open(path)
	if errors.Is(err, ErrNotLoaded) {
		return info, nil
	}
	if err != nil {
		return info, err
	}
	defer c.Close()
	info.Exists = true

	rows, err := c.db.QueryContext(ctx, `SELECT key, value FROM cache_meta`)
	if err != nil {
		return info, fmt.Errorf("reading cache metadata: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return info, fmt.Errorf("scanning cache metadata: %w", err)
		}
		switch k {
		case metaSourcePath:
			info.SourcePath = v
		case metaLoadedAt:
			info.LoadedAt, _ = time.Parse(time.RFC3339Nano, v)
		case metaRecordCount:
			info.RecordCount, _ = strconv.Atoi(v)
		}
	}
	return info, rows.Err()
}

// searchText is the case-folded text the keyword query matches against.
func searchText(rec types.ArtworkResult) string {
	parts := []string{rec.Title}
	if rec.Description != nil {
		parts = append(parts, *rec.Description)
	}
	parts = append(parts, rec.ArtistNames()...)
	parts = append(parts, rec.MediumDisplay)
	parts = append(parts, rec.Mediums...)
	parts = append(parts, rec.Culture)
	parts = append(parts, rec.Tags...)
	return normalize.Fold(strings.Join(parts, "\n"))
}

// jsonList encodes list without HTML escaping so stored values stay
// byte-comparable with the source text.
func jsonList[T any](list []T) string {
	if len(list) == 0 {
		return "[]"
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(list); err != nil {
		return "[]"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
