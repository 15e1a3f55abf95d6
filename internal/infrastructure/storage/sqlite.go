package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vitos/tickerwatch/internal/domain"
)

// SQLiteStore is an append-only journal of fetch outcomes. It is never read
// back to restore ticker state.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS fetch_log (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			at DATETIME NOT NULL,
			ok BOOLEAN NOT NULL,
			count INTEGER NOT NULL DEFAULT 0,
			message TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_log_at ON fetch_log(at);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// FetchJournal Implementation

func (s *SQLiteStore) Record(ctx context.Context, rec domain.FetchRecord) error {
	query := `INSERT INTO fetch_log (id, at, ok, count, message, duration_ms)
			  VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.At.UTC(), rec.OK, rec.Count, rec.Message, rec.Duration.Milliseconds())
	return err
}

// Recent returns up to limit records, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]domain.FetchRecord, error) {
	query := `SELECT id, at, ok, count, message, duration_ms FROM fetch_log ORDER BY seq DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.FetchRecord
	for rows.Next() {
		var r domain.FetchRecord
		var durationMs int64
		if err := rows.Scan(&r.ID, &r.At, &r.OK, &r.Count, &r.Message, &durationMs); err != nil {
			return nil, err
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		records = append(records, r)
	}
	return records, rows.Err()
}

// Prune deletes records older than cutoff and reports how many were removed.
func (s *SQLiteStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM fetch_log WHERE at < ?", cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
