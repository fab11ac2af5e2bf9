// Package store persists uploaded documents and their analysis results
// in SQLite. Documents are immutable once stored; analyses are replaced
// wholesale, never mutated in place.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/finlens/finlens/internal/document"
)

// ErrNotFound is returned for unknown file IDs.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id         TEXT PRIMARY KEY,
	filename   TEXT NOT NULL,
	content    BLOB NOT NULL,
	page_count INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS analyses (
	file_id    TEXT PRIMARY KEY REFERENCES documents(id) ON DELETE CASCADE,
	result     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
`

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SubmitDocument stores raw bytes and returns the new opaque file_id.
func (s *Store) SubmitDocument(filename string, content []byte, pageCount int) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO documents (id, filename, content, page_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, filename, content, pageCount, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	return id, nil
}

// GetDocument returns the stored bytes and metadata for a file_id.
func (s *Store) GetDocument(id string) (document.Meta, []byte, error) {
	var meta document.Meta
	var content []byte
	err := s.db.QueryRow(
		`SELECT id, filename, content, page_count, created_at FROM documents WHERE id = ?`, id,
	).Scan(&meta.FileID, &meta.Filename, &content, &meta.PageCount, &meta.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return document.Meta{}, nil, ErrNotFound
	}
	if err != nil {
		return document.Meta{}, nil, fmt.Errorf("select document: %w", err)
	}
	return meta, content, nil
}

// ListDocuments returns metadata for every stored document, newest first.
func (s *Store) ListDocuments() ([]document.Meta, error) {
	rows, err := s.db.Query(
		`SELECT id, filename, page_count, created_at FROM documents ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []document.Meta
	for rows.Next() {
		var m document.Meta
		if err := rows.Scan(&m.FileID, &m.Filename, &m.PageCount, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteDocument removes a document and its cascade-deleted analysis.
func (s *Store) DeleteDocument(id string) error {
	res, err := s.db.Exec(`DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveAnalysis upserts the serialized analysis for a file_id.
func (s *Store) SaveAnalysis(fileID string, res *document.AnalysisResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO analyses (file_id, result, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(file_id) DO UPDATE SET result = excluded.result, created_at = excluded.created_at`,
		fileID, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}

// LoadAnalysis returns a previously persisted analysis, or ErrNotFound.
func (s *Store) LoadAnalysis(fileID string) (*document.AnalysisResult, error) {
	var payload string
	err := s.db.QueryRow(`SELECT result FROM analyses WHERE file_id = ?`, fileID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load analysis: %w", err)
	}
	var res document.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return nil, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return &res, nil
}
