package coupon

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists coupons. Redeem must be a single conditional write: it
// succeeds only if the coupon was still unused.
type Repository interface {
	Create(ctx context.Context, c Coupon) error
	GetByCode(ctx context.Context, code string) (Coupon, error)
	Redeem(ctx context.Context, id, userID string, usedAt time.Time) error
	Release(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Coupon, error)
}

// PostgresRepository stores coupons in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectCoupon = `SELECT id, code, amount, is_used, used_by, used_at, created_at FROM coupons`

// Create inserts a coupon row.
func (r *PostgresRepository) Create(ctx context.Context, c Coupon) error {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO coupons (id, code, amount, is_used, created_at)
        VALUES ($1, $2, $3, FALSE, $4)`, id, c.Code, c.Amount, c.CreatedAt.UTC())
	return err
}

// GetByCode fetches a coupon by its code.
func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (Coupon, error) {
	return scanCoupon(r.db.QueryRow(ctx, selectCoupon+` WHERE code = $1`, code))
}

// Redeem flips the one-shot flag. The WHERE NOT is_used guard makes the flip
// atomic: a concurrent redemption of the same code loses with
// ErrAlreadyRedeemed.
func (r *PostgresRepository) Redeem(ctx context.Context, id, userID string, usedAt time.Time) error {
	couponID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidCode
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return ErrInvalidCode
	}
	cmd, err := r.db.Exec(ctx, `UPDATE coupons SET is_used = TRUE, used_by = $1, used_at = $2
        WHERE id = $3 AND NOT is_used`, uid, usedAt.UTC(), couponID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAlreadyRedeemed
	}
	return nil
}

// Release reverts a redeemed coupon whose credit leg failed for good.
func (r *PostgresRepository) Release(ctx context.Context, id string) error {
	couponID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidCode
	}
	_, err = r.db.Exec(ctx, `UPDATE coupons SET is_used = FALSE, used_by = NULL, used_at = NULL WHERE id = $1`, couponID)
	return err
}

// Delete removes a coupon.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	couponID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidCode
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, couponID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInvalidCode
	}
	return nil
}

// List returns all coupons, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Coupon, error) {
	rows, err := r.db.Query(ctx, selectCoupon+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

func scanCoupon(row pgx.Row) (Coupon, error) {
	var (
		c         Coupon
		id        uuid.UUID
		usedBy    *uuid.UUID
		usedAt    *time.Time
		createdAt time.Time
	)
	err := row.Scan(&id, &c.Code, &c.Amount, &c.IsUsed, &usedBy, &usedAt, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Coupon{}, ErrInvalidCode
	}
	if err != nil {
		return Coupon{}, err
	}
	c.ID = id.String()
	if usedBy != nil {
		c.UsedBy = usedBy.String()
	}
	if usedAt != nil {
		c.UsedAt = usedAt.UTC()
	}
	c.CreatedAt = createdAt.UTC()
	return c, nil
}
