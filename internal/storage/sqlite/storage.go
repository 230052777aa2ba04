// Package sqlite provides the SQLite-backed toast history.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrEmptyMessage indicates an attempt to record a blank message.
var ErrEmptyMessage = errors.New("empty message")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT    NOT NULL,
	message    TEXT    NOT NULL,
	source     TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_history_created_at ON history (created_at);
`

const timeLayout = "2006-01-02T15:04:05.000000Z"

// Entry is one message shown by the notifier.
type Entry struct {
	ID        int64
	CreatedAt time.Time
	Message   string
	Source    string
}

// Options tunes a Store.
type Options struct {
	// Limit keeps at most this many entries. Zero keeps everything.
	Limit int
	// Now stamps new entries. Defaults to time.Now.
	Now func() time.Time
}

// Store is the history table of one database file.
type Store struct {
	db   *sql.DB
	opts Options
}

// Open creates or opens the history database at dbPath.
func Open(dbPath string, opts Options) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite history: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite history: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite history: open db: %w", err)
	}
	// Notifier callbacks arrive from several goroutines; one connection
	// serializes them without SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Store{db: db, opts: opts}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite history: set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite history: create schema: %w", err)
	}
	return nil
}

// Close closes the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends a message and returns its ID. The table is trimmed to
// the configured limit afterwards.
func (s *Store) Record(message, source string) (int64, error) {
	if strings.TrimSpace(message) == "" {
		return 0, fmt.Errorf("sqlite history: %w", ErrEmptyMessage)
	}
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite history: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO history (created_at, message, source) VALUES (?, ?, ?)`,
		s.opts.Now().UTC().Format(timeLayout), message, source)
	if err != nil {
		return 0, fmt.Errorf("sqlite history: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sqlite history: last insert id: %w", err)
	}

	if s.opts.Limit > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM history WHERE id NOT IN (SELECT id FROM history ORDER BY id DESC LIMIT ?)`,
			s.opts.Limit); err != nil {
			return 0, fmt.Errorf("sqlite history: trim: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite history: commit: %w", err)
	}
	return id, nil
}

// List returns the newest entries first. A limit <= 0 returns all of them.
func (s *Store) List(limit int) ([]Entry, error) {
	query := `SELECT id, created_at, message, source FROM history ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite history: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			created string
		)
		if err := rows.Scan(&e.ID, &created, &e.Message, &e.Source); err != nil {
			return nil, fmt.Errorf("sqlite history: scan: %w", err)
		}
		e.CreatedAt, err = time.Parse(timeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("sqlite history: parse created_at %q: %w", created, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite history: iterate: %w", err)
	}
	return entries, nil
}

// Clear removes every entry and returns how many were removed.
func (s *Store) Clear() (int64, error) {
	res, err := s.db.ExecContext(context.Background(), `DELETE FROM history`)
	if err != nil {
		return 0, fmt.Errorf("sqlite history: clear: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite history: rows affected: %w", err)
	}
	return n, nil
}
