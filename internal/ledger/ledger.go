package ledger

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates the account id does not resolve to a stored account.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountBlocked indicates the account rejects balance operations. Admin
	// adjustments bypass this check.
	ErrAccountBlocked = errors.New("account blocked")

	// ErrInsufficientBalance occurs when a debit would take the balance below zero.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrDuplicateOperation indicates the idempotency key was already recorded.
	// The original result is returned alongside, so callers may treat this as
	// success on retry.
	ErrDuplicateOperation = errors.New("duplicate operation")

	// ErrStoreUnavailable indicates a transient store failure; the operation may
	// be retried with the same idempotency key.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidOperation covers malformed inputs (unknown reason, zero delta).
	ErrInvalidOperation = errors.New("invalid operation")
)

// Reason tags why a balance changed.
type Reason string

const (
	ReasonOrderDebit     Reason = "ORDER_DEBIT"
	ReasonRechargeCredit Reason = "RECHARGE_CREDIT"
	ReasonTransferOut    Reason = "TRANSFER_OUT"
	ReasonTransferIn     Reason = "TRANSFER_IN"
	ReasonCouponRedeem   Reason = "COUPON_REDEEM"
	ReasonAdminAdjust    Reason = "ADMIN_ADJUST"
)

// Valid reports whether the reason is one of the known codes.
func (r Reason) Valid() bool {
	switch r {
	case ReasonOrderDebit, ReasonRechargeCredit, ReasonTransferOut,
		ReasonTransferIn, ReasonCouponRedeem, ReasonAdminAdjust:
		return true
	}
	return false
}

// ApplyInput describes one balance mutation.
type ApplyInput struct {
	AccountID      string
	Delta          int64
	Reason         Reason
	ReferenceID    string
	IdempotencyKey string
}

// Key returns the effective idempotency key, deriving one from the reason and
// reference when the caller did not supply it.
func (in ApplyInput) Key() string {
	if in.IdempotencyKey != "" {
		return in.IdempotencyKey
	}
	return string(in.Reason) + ":" + in.ReferenceID
}

// Result captures the outcome of an applied operation.
type Result struct {
	EntryID          string
	ResultingBalance int64
}

// Entry is an immutable record of one balance change.
type Entry struct {
	ID               string
	AccountID        string
	Delta            int64
	Reason           Reason
	ReferenceID      string
	ResultingBalance int64
	CreatedAt        time.Time
}

// Engine is the single choke point for balance mutations. Apply must be atomic
// per account: the non-negative check and the write happen under the same
// lock, and a repeated call with a recorded idempotency key returns the
// original result together with ErrDuplicateOperation.
type Engine interface {
	EnsureAccount(ctx context.Context, accountID string) error
	Apply(ctx context.Context, in ApplyInput) (Result, error)
	Balance(ctx context.Context, accountID string) (int64, error)
	Entries(ctx context.Context, accountID string) ([]Entry, error)
}

func validateInput(in ApplyInput) error {
	if in.AccountID == "" || in.ReferenceID == "" {
		return ErrInvalidOperation
	}
	if in.Delta == 0 {
		return ErrInvalidOperation
	}
	if !in.Reason.Valid() {
		return ErrInvalidOperation
	}
	return nil
}
