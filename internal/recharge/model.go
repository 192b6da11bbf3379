package recharge

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the balance request does not exist.
	ErrNotFound = errors.New("balance request not found")

	// ErrNotPending indicates the request was already decided.
	ErrNotPending = errors.New("balance request already decided")

	// ErrInvalidAmount rejects non-positive recharge amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Status of a balance request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request is a user-submitted balance recharge awaiting admin review.
type Request struct {
	ID               string
	UserID           string
	Amount           int64
	ReceiptReference string
	PaymentDate      string
	PaymentTime      string
	Description      string
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
