package activity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the listed user id is not a valid account reference.
var ErrNotFound = errors.New("activity: user not found")

// PostgresStore persists activity rows in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Append writes one activity row.
func (s *PostgresStore) Append(ctx context.Context, rec Record) error {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(rec.UserID)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `INSERT INTO user_activity (id, user_id, activity_type, description, created_at)
        VALUES ($1, $2, $3, $4, $5)`, id, userID, rec.Type, rec.Description, rec.CreatedAt.UTC())
	return err
}

// ListByUser returns one user's activity, newest first.
func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.list(ctx, `SELECT id, user_id, activity_type, description, created_at
        FROM user_activity WHERE user_id = $1 ORDER BY created_at DESC`, uid)
}

// ListAll returns all activity, newest first.
func (s *PostgresStore) ListAll(ctx context.Context) ([]Record, error) {
	return s.list(ctx, `SELECT id, user_id, activity_type, description, created_at
        FROM user_activity ORDER BY created_at DESC`)
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec       Record
			id, uid   uuid.UUID
			createdAt time.Time
		)
		if err := rows.Scan(&id, &uid, &rec.Type, &rec.Description, &createdAt); err != nil {
			return nil, err
		}
		rec.ID = id.String()
		rec.UserID = uid.String()
		rec.CreatedAt = createdAt.UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}
