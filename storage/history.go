// Package storage provides SQLite persistence for summarization history.
//
// Information Hiding:
// - SQLite connection management hidden behind the store type
// - Schema details encapsulated
// - Thread-safe via sql.DB's built-in connection pooling
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SummaryRecord is one successful summarization.
type SummaryRecord struct {
	ID           string
	Model        string
	Provider     string
	RequestChars int
	SummaryChars int
	CreatedAt    time.Time
}

// HistoryStore records summarization outcomes in a SQLite database file.
type HistoryStore struct {
	db *sql.DB
}

// OpenHistory opens or creates the history database at the given path.
// Creates parent directories if they don't exist.
func OpenHistory(path string) (*HistoryStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	store := &HistoryStore{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// NewHistoryInMemory creates an in-memory store (useful for testing).
func NewHistoryInMemory() (*HistoryStore, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}

	store := &HistoryStore{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

func (s *HistoryStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS summaries (
			id TEXT PRIMARY KEY,
			model TEXT NOT NULL,
			provider TEXT NOT NULL,
			request_chars INTEGER NOT NULL,
			summary_chars INTEGER NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);
		CREATE INDEX IF NOT EXISTS idx_summaries_created_at ON summaries(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts one summary record, assigning an ID when empty.
func (s *HistoryStore) Record(ctx context.Context, rec SummaryRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO summaries (id, model, provider, request_chars, summary_chars, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Model, rec.Provider, rec.RequestChars, rec.SummaryChars,
		rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert summary record: %w", err)
	}
	return nil
}

// Recent returns the newest records, most recent first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]SummaryRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, model, provider, request_chars, summary_chars, created_at
		FROM summaries
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	var records []SummaryRecord
	for rows.Next() {
		var rec SummaryRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Model, &rec.Provider, &rec.RequestChars, &rec.SummaryChars, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan summary record: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
