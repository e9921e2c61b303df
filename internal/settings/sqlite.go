package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	pragmaJournalModeWAL = `PRAGMA journal_mode=WAL`
	pragmaBusyTimeout    = `PRAGMA busy_timeout=5000`
)

// SQLite is a durable settings store keeping each list as one JSON-encoded
// row, so a SetList replaces the whole value in a single statement.
type SQLite struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the settings database at path and brings
// its schema up to date.
func Open(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("open settings: empty path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("open settings: create parent dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := configureSQLite(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := RunMigrations(db, DefaultMigrations()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db, path: path}, nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// GetList returns the list stored under key; ok is false when the key has
// never been written.
func (s *SQLite) GetList(ctx context.Context, key string) ([]string, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM settings WHERE key = ?
	`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get list %q: %w", key, err)
	}

	var values []string
	if err := json.Unmarshal([]byte(payload), &values); err != nil {
		return nil, false, fmt.Errorf("get list %q: decode stored value: %w", key, err)
	}
	return values, true, nil
}

// SetList replaces the list stored under key in one upsert.
func (s *SQLite) SetList(ctx context.Context, key string, values []string) error {
	if values == nil {
		values = []string{}
	}
	payload, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("set list %q: encode value: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings(key, value) VALUES(?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, string(payload))
	if err != nil {
		return fmt.Errorf("set list %q: %w", key, err)
	}
	return nil
}

func configureSQLite(db *sql.DB) error {
	for _, stmt := range []string{pragmaJournalModeWAL, pragmaBusyTimeout} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("configure sqlite: %q: %w", stmt, err)
		}
	}
	return nil
}
