// Package search implements document indexing and retrieval: a sqlite
// document store as the source of truth, an in-memory lexical index, a
// persistent vector store, and a hybrid engine fusing the two.
package search

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Document is an indexed item: a past project, a documentation page, or a
// repository activity event.
type Document struct {
	ID        string
	Index     string
	Title     string
	Content   string
	URL       string
	Origin    string
	Metadata  map[string]string
	CreatedAt time.Time
}

// Store persists documents in sqlite. The lexical and vector indexes are
// rebuilt from it on startup.
type Store struct {
	db *sql.DB
}

func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create database directory")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS documents(
			id TEXT PRIMARY KEY,
			idx TEXT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			origin TEXT NOT NULL DEFAULT '',
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS documents_idx ON documents(idx);
	`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create tables")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert inserts or replaces a document by ID.
func (s *Store) Upsert(doc Document) error {
	meta, err := json.Marshal(doc.Metadata)
	if err != nil {
		return errors.Wrap(err, "marshal metadata")
	}

	_, err = s.db.Exec(`
		INSERT INTO documents(id, idx, title, content, url, origin, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			idx = excluded.idx,
			title = excluded.title,
			content = excluded.content,
			url = excluded.url,
			origin = excluded.origin,
			metadata = excluded.metadata,
			created_at = excluded.created_at
	`, doc.ID, doc.Index, doc.Title, doc.Content, doc.URL, doc.Origin, string(meta), doc.CreatedAt.Unix())
	return errors.Wrapf(err, "upsert document %s", doc.ID)
}

func scanDocument(rows *sql.Rows) (Document, error) {
	var doc Document
	var meta string
	var createdAt int64
	if err := rows.Scan(&doc.ID, &doc.Index, &doc.Title, &doc.Content, &doc.URL, &doc.Origin, &meta, &createdAt); err != nil {
		return Document{}, errors.Wrap(err, "scan document")
	}
	if err := json.Unmarshal([]byte(meta), &doc.Metadata); err != nil {
		return Document{}, errors.Wrapf(err, "decode metadata for %s", doc.ID)
	}
	doc.CreatedAt = time.Unix(createdAt, 0).UTC()
	return doc, nil
}

const documentColumns = "id, idx, title, content, url, origin, metadata, created_at"

// List returns the documents of one index, or of all indexes when index is
// empty, newest first.
func (s *Store) List(index string) ([]Document, error) {
	var rows *sql.Rows
	var err error
	if index == "" {
		rows, err = s.db.Query("SELECT " + documentColumns + " FROM documents ORDER BY created_at DESC")
	} else {
		rows, err = s.db.Query("SELECT "+documentColumns+" FROM documents WHERE idx = ? ORDER BY created_at DESC", index)
	}
	if err != nil {
		return nil, errors.Wrap(err, "list documents")
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, errors.Wrap(rows.Err(), "list documents")
}

// Get returns a document by ID. sql.ErrNoRows is wrapped, use IsNotFound.
func (s *Store) Get(id string) (Document, error) {
	rows, err := s.db.Query("SELECT "+documentColumns+" FROM documents WHERE id = ?", id)
	if err != nil {
		return Document{}, errors.Wrapf(err, "get document %s", id)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Document{}, errors.Wrapf(err, "get document %s", id)
		}
		return Document{}, errors.Wrapf(sql.ErrNoRows, "document %s", id)
	}
	return scanDocument(rows)
}

// IsNotFound reports whether err means the document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// Count returns the number of documents in an index.
func (s *Store) Count(index string) (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM documents WHERE idx = ?", index).Scan(&n)
	return n, errors.Wrapf(err, "count documents in %s", index)
}
