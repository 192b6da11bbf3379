package notification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the notification does not exist or belongs to someone else.
var ErrNotFound = errors.New("notification not found")

// PostgresStore persists notifications in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert writes one notification row.
func (s *PostgresStore) Insert(ctx context.Context, n Notification) error {
	id, err := uuid.Parse(n.ID)
	if err != nil {
		return err
	}
	var userID any
	if n.UserID != "" {
		uid, err := uuid.Parse(n.UserID)
		if err != nil {
			return err
		}
		userID = uid
	}
	_, err = s.db.Exec(ctx, `INSERT INTO notifications (id, user_id, title, message, is_read, is_admin, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, userID, n.Title, n.Message, n.IsRead, n.IsAdmin, n.CreatedAt.UTC())
	return err
}

// ListByUser returns a user's notifications, newest first.
func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]Notification, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.list(ctx, `SELECT id, user_id, title, message, is_read, is_admin, created_at
        FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, uid)
}

// ListAdmin returns admin-wide notifications, newest first.
func (s *PostgresStore) ListAdmin(ctx context.Context) ([]Notification, error) {
	return s.list(ctx, `SELECT id, user_id, title, message, is_read, is_admin, created_at
        FROM notifications WHERE is_admin ORDER BY created_at DESC`)
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]Notification, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var (
			n         Notification
			id        uuid.UUID
			userID    *uuid.UUID
			createdAt time.Time
		)
		if err := rows.Scan(&id, &userID, &n.Title, &n.Message, &n.IsRead, &n.IsAdmin, &createdAt); err != nil {
			return nil, err
		}
		n.ID = id.String()
		if userID != nil {
			n.UserID = userID.String()
		}
		n.CreatedAt = createdAt.UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flags a notification as read, scoped to its owner.
func (s *PostgresStore) MarkRead(ctx context.Context, id, userID string) error {
	nid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := s.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, nid, uid)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
