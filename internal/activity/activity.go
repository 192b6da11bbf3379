package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Activity types mirrored by the admin activity page.
const (
	TypeOrderPlaced      = "ORDER_PLACED"
	TypeBalanceSent      = "BALANCE_SENT"
	TypeBalanceReceived  = "BALANCE_RECEIVED"
	TypeCouponRedeemed   = "COUPON_REDEEMED"
	TypeBalanceAdded     = "BALANCE_ADDED"
	TypeBalanceDeducted  = "BALANCE_DEDUCTED"
	TypeRechargeApproved = "RECHARGE_APPROVED"
)

// Record is one append-only activity row.
type Record struct {
	ID          string
	UserID      string
	Type        string
	Description string
	CreatedAt   time.Time
}

// Store persists activity records.
type Store interface {
	Append(ctx context.Context, rec Record) error
	ListByUser(ctx context.Context, userID string) ([]Record, error)
	ListAll(ctx context.Context) ([]Record, error)
}

// Log appends activity records best-effort; failures are logged only.
type Log struct {
	store  Store
	logger *slog.Logger
}

// NewLog creates an activity log.
func NewLog(store Store, logger *slog.Logger) *Log {
	return &Log{store: store, logger: logger}
}

// Append records one activity row. Best effort.
func (l *Log) Append(ctx context.Context, userID, activityType, description string) {
	if l == nil || l.store == nil {
		return
	}
	rec := Record{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        activityType,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := l.store.Append(ctx, rec); err != nil {
		l.logger.Warn("activity record dropped", "type", activityType, "error", err)
	}
}

// ListByUser returns a user's activity, newest first.
func (l *Log) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	return l.store.ListByUser(ctx, userID)
}

// ListAll returns all activity for the admin console, newest first.
func (l *Log) ListAll(ctx context.Context) ([]Record, error) {
	return l.store.ListAll(ctx)
}
