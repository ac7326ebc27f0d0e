// Package storage provides the optional SQLite audit log of scoring requests.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Record is one audited scoring request. Scores and vectors are deliberately
// not stored; only request shape and outcome.
type Record struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	HeaderCount int       `json:"header_count"`
	FieldCount  int       `json:"field_count"`
	Status      int       `json:"status"`
	DurationMS  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuditStore persists scoring request records in SQLite.
type AuditStore struct {
	db *sql.DB
}

// NewAuditStore opens or creates the audit database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewAuditStore(dbPath string) (*AuditStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS scoring_requests (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		header_count INTEGER NOT NULL,
		field_count INTEGER NOT NULL,
		status INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_scoring_requests_created_at ON scoring_requests(created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize audit schema: %w", err)
	}

	return &AuditStore{db: db}, nil
}

// Insert stores one record. CreatedAt is set if zero.
func (s *AuditStore) Insert(ctx context.Context, rec *Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scoring_requests (id, path, header_count, field_count, status, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Path, rec.HeaderCount, rec.FieldCount, rec.Status, rec.DurationMS, rec.CreatedAt,
	)
	return err
}

// Count returns the number of audited requests.
func (s *AuditStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scoring_requests`).Scan(&n)
	return n, err
}

// Recent returns up to limit records, newest first.
func (s *AuditStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, header_count, field_count, status, duration_ms, created_at
		 FROM scoring_requests ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Path, &rec.HeaderCount, &rec.FieldCount,
			&rec.Status, &rec.DurationMS, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the database.
func (s *AuditStore) Close() error {
	return s.db.Close()
}
