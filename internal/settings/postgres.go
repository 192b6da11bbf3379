package settings

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists settings in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get fetches one setting.
func (s *PostgresStore) Get(ctx context.Context, key string) (Setting, error) {
	var (
		set       Setting
		updatedAt time.Time
	)
	err := s.db.QueryRow(ctx, `SELECT key, value, updated_at FROM system_settings WHERE key = $1`,
		Normalize(key)).Scan(&set.Key, &set.Value, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Setting{}, ErrNotFound
	}
	if err != nil {
		return Setting{}, err
	}
	set.UpdatedAt = updatedAt.UTC()
	return set, nil
}

// Set upserts one setting.
func (s *PostgresStore) Set(ctx context.Context, key, value string) (Setting, error) {
	now := time.Now().UTC()
	set := Setting{Key: Normalize(key), Value: value, UpdatedAt: now}
	_, err := s.db.Exec(ctx, `INSERT INTO system_settings (key, value, updated_at) VALUES ($1, $2, $3)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		set.Key, set.Value, now)
	if err != nil {
		return Setting{}, err
	}
	return set, nil
}

// List returns all settings ordered by key.
func (s *PostgresStore) List(ctx context.Context) ([]Setting, error) {
	rows, err := s.db.Query(ctx, `SELECT key, value, updated_at FROM system_settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Setting
	for rows.Next() {
		var (
			set       Setting
			updatedAt time.Time
		)
		if err := rows.Scan(&set.Key, &set.Value, &updatedAt); err != nil {
			return nil, err
		}
		set.UpdatedAt = updatedAt.UTC()
		out = append(out, set)
	}
	return out, rows.Err()
}
