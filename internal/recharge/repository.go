package recharge

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists balance requests.
type Repository interface {
	Create(ctx context.Context, req Request) error
	Get(ctx context.Context, id string) (Request, error)
	SetStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error
	ListByUser(ctx context.Context, userID string) ([]Request, error)
	ListAll(ctx context.Context) ([]Request, error)
}

// PostgresRepository stores balance requests in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectRequest = `SELECT id, user_id, amount, receipt_reference, payment_date, payment_time, description, status, created_at, updated_at FROM balance_requests`

// Create inserts a pending balance request.
func (r *PostgresRepository) Create(ctx context.Context, req Request) error {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO balance_requests (id, user_id, amount, receipt_reference, payment_date, payment_time, description, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, userID, req.Amount, req.ReceiptReference, req.PaymentDate, req.PaymentTime, req.Description,
		string(req.Status), req.CreatedAt.UTC(), req.UpdatedAt.UTC())
	return err
}

// Get fetches one balance request.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Request, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return Request{}, ErrNotFound
	}
	return scanRequest(r.db.QueryRow(ctx, selectRequest+` WHERE id = $1`, reqID))
}

// SetStatus writes the decision and updated_at. The write only lands on a
// still-pending request, so a racing second decision loses with ErrNotPending
// instead of overwriting the first.
func (r *PostgresRepository) SetStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE balance_requests SET status = $1, updated_at = $2 WHERE id = $3 AND status = 'pending'`,
		string(status), updatedAt.UTC(), reqID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		// Missing row or a lost decision race; look again to tell them apart.
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return ErrNotPending
	}
	return nil
}

// ListByUser returns one user's requests, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Request, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.list(ctx, selectRequest+` WHERE user_id = $1 ORDER BY created_at DESC`, uid)
}

// ListAll returns every request for the admin console, newest first.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]Request, error) {
	return r.list(ctx, selectRequest+` ORDER BY created_at DESC`)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]Request, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func scanRequest(row pgx.Row) (Request, error) {
	var (
		req                  Request
		id, userID           uuid.UUID
		status               string
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &userID, &req.Amount, &req.ReceiptReference, &req.PaymentDate, &req.PaymentTime,
		&req.Description, &status, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	if err != nil {
		return Request{}, err
	}
	req.ID = id.String()
	req.UserID = userID.String()
	req.Status = Status(status)
	req.CreatedAt = createdAt.UTC()
	req.UpdatedAt = updatedAt.UTC()
	return req, nil
}
