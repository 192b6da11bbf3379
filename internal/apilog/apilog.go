// Package apilog persists a trail of API requests for the admin console.
package apilog

import (
	"context"
	"log/slog"
	"time"
)

// Record is one logged API request.
type Record struct {
	ID        int64
	UserID    string
	Method    string
	Path      string
	Status    int
	Duration  time.Duration
	RequestID string
	CreatedAt time.Time
}

// Store persists records.
type Store interface {
	Append(ctx context.Context, rec Record) error
	ListAll(ctx context.Context, limit int) ([]Record, error)
}

// Trail writes records best-effort: persistence failures are logged and
// swallowed so auditing never fails a request.
type Trail struct {
	store  Store
	logger *slog.Logger
}

// NewTrail constructs an audit trail.
func NewTrail(store Store, logger *slog.Logger) *Trail {
	return &Trail{store: store, logger: logger}
}

// Append records one request.
func (t *Trail) Append(ctx context.Context, rec Record) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if err := t.store.Append(ctx, rec); err != nil {
		t.logger.Warn("api log append failed", "path", rec.Path, "error", err)
	}
}

// ListAll returns the most recent records.
func (t *Trail) ListAll(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}
	return t.store.ListAll(ctx, limit)
}
