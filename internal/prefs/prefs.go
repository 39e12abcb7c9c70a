// Package prefs is a small key-value store for user preferences, persisted
// in the same sqlite database as the document store.
package prefs

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Well-known preference keys.
const (
	KeyRepoURL       = "repo_url"
	KeySearchMode    = "search_mode"
	KeyNotifications = "notifications"
)

// Store is a persistent string-to-string map.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create preferences directory")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open preferences database")
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS preferences(
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create preferences table")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored value, or fallback when the key is absent.
func (s *Store) Get(key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM preferences WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "get preference %s", key)
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO preferences(key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return errors.Wrapf(err, "set preference %s", key)
}

func (s *Store) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM preferences WHERE key = ?", key)
	return errors.Wrapf(err, "delete preference %s", key)
}

// All returns every stored preference.
func (s *Store) All() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM preferences ORDER BY key")
	if err != nil {
		return nil, errors.Wrap(err, "list preferences")
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, errors.Wrap(err, "scan preference")
		}
		out[key] = value
	}
	return out, errors.Wrap(rows.Err(), "list preferences")
}
