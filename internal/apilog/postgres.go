package apilog

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists API log records in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Append inserts one record.
func (s *PostgresStore) Append(ctx context.Context, rec Record) error {
	var userID any
	if rec.UserID != "" {
		userID = rec.UserID
	}
	_, err := s.db.Exec(ctx, `INSERT INTO api_logs (user_id, method, path, status, duration_ms, request_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		userID, rec.Method, rec.Path, rec.Status, rec.Duration.Milliseconds(), rec.RequestID, rec.CreatedAt.UTC())
	return err
}

// ListAll returns the most recent records, newest first.
func (s *PostgresStore) ListAll(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.Query(ctx, `SELECT id, COALESCE(user_id::text, ''), method, path, status, duration_ms, request_id, created_at
        FROM api_logs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec        Record
			durationMS int64
			createdAt  time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Method, &rec.Path, &rec.Status, &durationMS, &rec.RequestID, &createdAt); err != nil {
			return nil, err
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.CreatedAt = createdAt.UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}
