package order

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the order does not exist.
	ErrNotFound = errors.New("order not found")

	// ErrServiceUnavailable indicates the ordered service is missing or hidden.
	ErrServiceUnavailable = errors.New("service not found or unavailable")

	// ErrInvalidTransition indicates an illegal status change.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusPartial    Status = "partial"
	StatusCanceled   Status = "canceled"
	StatusFailed     Status = "failed"
)

// transitions is the legal status machine: pending → processing → completed
// or partial, pending → canceled, and any non-terminal state → failed.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCanceled, StatusFailed},
	StatusProcessing: {StatusCompleted, StatusPartial, StatusFailed},
}

// Valid reports whether the status is a known state.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusPartial, StatusCanceled, StatusFailed:
		return true
	}
	return false
}

// CanTransition reports whether s may move to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is a purchase of a catalog service. Amount is fixed at creation and
// never recomputed; the row exists only after the matching ORDER_DEBIT entry.
type Order struct {
	ID        string
	UserID    string
	ServiceID string
	Link      string
	Quantity  int64
	Amount    int64
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}
