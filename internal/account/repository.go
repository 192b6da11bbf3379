package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the account does not exist.
var ErrNotFound = errors.New("account not found")

// ErrAlreadyExists indicates a username or email collision on registration.
var ErrAlreadyExists = errors.New("account already exists")

// Repository persists accounts.
type Repository interface {
	Create(ctx context.Context, acc Account) error
	GetByID(ctx context.Context, id string) (Account, error)
	GetByUsername(ctx context.Context, username string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	List(ctx context.Context) ([]Account, error)
	SetBlocked(ctx context.Context, id string, blocked bool) error
	SetEmailBlocked(ctx context.Context, id string, blocked bool) error
}

// PostgresRepository stores accounts in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts an account row with a zero balance.
func (r *PostgresRepository) Create(ctx context.Context, acc Account) error {
	id, err := uuid.Parse(acc.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO accounts (id, username, email, password_hash, balance, is_blocked, email_blocked, is_admin, created_at)
        VALUES ($1, $2, $3, $4, 0, $5, $6, $7, $8)`,
		id, acc.Username, acc.Email, acc.PasswordHash, acc.IsBlocked, acc.EmailBlocked, acc.IsAdmin, acc.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}
	return err
}

// GetByID fetches an account by identifier.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Account, error) {
	accID, err := uuid.Parse(id)
	if err != nil {
		return Account{}, ErrNotFound
	}
	return r.scanOne(r.db.QueryRow(ctx, selectAccount+` WHERE id = $1`, accID))
}

// GetByUsername fetches an account by username.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (Account, error) {
	return r.scanOne(r.db.QueryRow(ctx, selectAccount+` WHERE username = $1`, username))
}

// GetByEmail fetches an account by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (Account, error) {
	return r.scanOne(r.db.QueryRow(ctx, selectAccount+` WHERE email = $1`, email))
}

// List returns all accounts, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.Query(ctx, selectAccount+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		acc, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

// SetBlocked toggles the account-wide block flag.
func (r *PostgresRepository) SetBlocked(ctx context.Context, id string, blocked bool) error {
	return r.setFlag(ctx, `UPDATE accounts SET is_blocked = $1 WHERE id = $2`, id, blocked)
}

// SetEmailBlocked toggles the email block flag.
func (r *PostgresRepository) SetEmailBlocked(ctx context.Context, id string, blocked bool) error {
	return r.setFlag(ctx, `UPDATE accounts SET email_blocked = $1 WHERE id = $2`, id, blocked)
}

func (r *PostgresRepository) setFlag(ctx context.Context, query, id string, blocked bool) error {
	accID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, query, blocked, accID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const selectAccount = `SELECT id, username, email, password_hash, balance, is_blocked, email_blocked, is_admin, created_at FROM accounts`

func (r *PostgresRepository) scanOne(row pgx.Row) (Account, error) {
	var (
		acc       Account
		id        uuid.UUID
		createdAt time.Time
	)
	err := row.Scan(&id, &acc.Username, &acc.Email, &acc.PasswordHash, &acc.Balance,
		&acc.IsBlocked, &acc.EmailBlocked, &acc.IsAdmin, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, err
	}
	acc.ID = id.String()
	acc.CreatedAt = createdAt.UTC()
	return acc, nil
}
