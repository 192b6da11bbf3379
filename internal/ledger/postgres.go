package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PostgresEngine applies balance mutations against the accounts table and
// records append-only rows in ledger_entries. The non-negative check and both
// writes happen inside one transaction holding a row lock on the account.
type PostgresEngine struct {
	db *pgxpool.Pool
}

// NewPostgresEngine constructs a Postgres-backed ledger engine.
func NewPostgresEngine(db *pgxpool.Pool) *PostgresEngine {
	return &PostgresEngine{db: db}
}

// EnsureAccount verifies the account row exists. Rows are created by account
// registration; the engine never invents accounts.
func (e *PostgresEngine) EnsureAccount(ctx context.Context, accountID string) error {
	var one int
	err := e.db.QueryRow(ctx, `SELECT 1 FROM accounts WHERE id = $1`, accountID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAccountNotFound
	}
	if err != nil {
		return transientErr("ensure account", err)
	}
	return nil
}

// Apply performs a single atomic check-and-apply. Idempotency is enforced by
// the unique index on ledger_entries.idempotency_key: a replayed key returns
// the originally recorded result with ErrDuplicateOperation.
func (e *PostgresEngine) Apply(ctx context.Context, in ApplyInput) (Result, error) {
	if err := validateInput(in); err != nil {
		return Result{}, err
	}

	tx, err := e.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Result{}, transientErr("begin", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var (
		balance      int64
		blocked      bool
		emailBlocked bool
	)
	err = tx.QueryRow(ctx, `SELECT balance, is_blocked, email_blocked FROM accounts WHERE id = $1 FOR UPDATE`,
		in.AccountID).Scan(&balance, &blocked, &emailBlocked)
	if errors.Is(err, pgx.ErrNoRows) {
		return Result{}, ErrAccountNotFound
	}
	if err != nil {
		return Result{}, transientErr("lock account", err)
	}

	var prior Result
	err = tx.QueryRow(ctx, `SELECT id, resulting_balance FROM ledger_entries WHERE idempotency_key = $1`,
		in.Key()).Scan(&prior.EntryID, &prior.ResultingBalance)
	if err == nil {
		return prior, ErrDuplicateOperation
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Result{}, transientErr("idempotency lookup", err)
	}

	if (blocked || emailBlocked) && in.Reason != ReasonAdminAdjust {
		return Result{}, ErrAccountBlocked
	}
	newBalance := balance + in.Delta
	if newBalance < 0 {
		return Result{}, ErrInsufficientBalance
	}

	entryID := uuid.New()
	_, err = tx.Exec(ctx, `INSERT INTO ledger_entries
        (id, account_id, delta, reason, reference_id, idempotency_key, resulting_balance, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entryID, in.AccountID, in.Delta, string(in.Reason), in.ReferenceID, in.Key(), newBalance, time.Now().UTC())
	if err != nil {
		// A concurrent writer may have landed the same key between our lookup
		// and insert; surface it as the duplicate it is.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return e.replay(ctx, in.Key())
		}
		return Result{}, transientErr("insert entry", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = $1 WHERE id = $2`, newBalance, in.AccountID); err != nil {
		return Result{}, transientErr("update balance", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, transientErr("commit", err)
	}

	return Result{EntryID: entryID.String(), ResultingBalance: newBalance}, nil
}

// Balance returns the current account balance.
func (e *PostgresEngine) Balance(ctx context.Context, accountID string) (int64, error) {
	var balance int64
	err := e.db.QueryRow(ctx, `SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrAccountNotFound
	}
	if err != nil {
		return 0, transientErr("read balance", err)
	}
	return balance, nil
}

// Entries lists the account's ledger entries, oldest first.
func (e *PostgresEngine) Entries(ctx context.Context, accountID string) ([]Entry, error) {
	rows, err := e.db.Query(ctx, `SELECT id, account_id, delta, reason, reference_id, resulting_balance, created_at
        FROM ledger_entries WHERE account_id = $1 ORDER BY created_at`, accountID)
	if err != nil {
		return nil, transientErr("list entries", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry           Entry
			id, account     uuid.UUID
			reason          string
			createdAt       time.Time
		)
		if err := rows.Scan(&id, &account, &entry.Delta, &reason, &entry.ReferenceID, &entry.ResultingBalance, &createdAt); err != nil {
			return nil, transientErr("scan entry", err)
		}
		entry.ID = id.String()
		entry.AccountID = account.String()
		entry.Reason = Reason(reason)
		entry.CreatedAt = createdAt.UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, transientErr("list entries", err)
	}
	return entries, nil
}

func (e *PostgresEngine) replay(ctx context.Context, key string) (Result, error) {
	var prior Result
	err := e.db.QueryRow(ctx, `SELECT id, resulting_balance FROM ledger_entries WHERE idempotency_key = $1`,
		key).Scan(&prior.EntryID, &prior.ResultingBalance)
	if err != nil {
		return Result{}, transientErr("replay lookup", err)
	}
	return prior, ErrDuplicateOperation
}

func transientErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrStoreUnavailable)
}
