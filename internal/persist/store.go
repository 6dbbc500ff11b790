// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package persist owns the shared store that receives synced search
// results. Sync is the only writer: it upserts each record keyed by its
// global id, so re-running a sync on the same batch updates rows in place
// and never duplicates them.
package persist

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// NoMetadata is stored in place of an empty raw metadata payload.
const NoMetadata = `{"_status":"no_metadata"}`

// ErrNotFound indicates no synced record has the requested global id.
var ErrNotFound = errors.New("record not found")

// Store manages the shared SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the shared store at path and creates the
// schema if it does not exist.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database file the store writes to.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sync_runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			new_count INTEGER NOT NULL DEFAULT 0,
			updated_count INTEGER NOT NULL DEFAULT 0,
			failed_at_global_id TEXT,
			error TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS artworks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			global_id TEXT NOT NULL UNIQUE,
			museum_id TEXT NOT NULL,
			local_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			artists TEXT NOT NULL,
			image_url TEXT,
			thumbnail_url TEXT,
			additional_images TEXT NOT NULL,
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
			is_public_domain INTEGER NOT NULL,
			source_url TEXT,
			raw_metadata TEXT NOT NULL,
			created_at TEXT NOT NULL,
			last_synced_at TEXT NOT NULL,
			sync_run_id TEXT NOT NULL REFERENCES sync_runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_artworks_museum_id ON artworks(museum_id)`,
		`CREATE INDEX IF NOT EXISTS idx_artworks_last_synced_at ON artworks(last_synced_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// rawOrSentinel returns raw verbatim, or NoMetadata when raw is empty.
func rawOrSentinel(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return NoMetadata
	}
	return string(raw)
}

func jsonList[T any](list []T) (string, error) {
	if len(list) == 0 {
		return "[]", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(list); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
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

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
