package gift

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/boostpanel/boostpanel/internal/account"
	"github.com/boostpanel/boostpanel/internal/activity"
	"github.com/boostpanel/boostpanel/internal/ledger"
	"github.com/boostpanel/boostpanel/internal/notification"
)

var (
	// ErrSelfTransfer rejects gifting balance to yourself.
	ErrSelfTransfer = errors.New("cannot gift balance to yourself")

	// ErrRecipientNotFound indicates the recipient username does not exist.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrInvalidAmount rejects non-positive gift amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Result describes a completed gift.
type Result struct {
	ReferenceID string
	SenderID    string
	RecipientID string
	Amount      int64
}

// Service moves balance between users as an atomic debit/credit pair.
type Service struct {
	accounts   *account.Service
	engine     ledger.Engine
	notifier   *notification.Service
	activities *activity.Log
}

// NewService constructs a gift service.
func NewService(accounts *account.Service, engine ledger.Engine, notifier *notification.Service, activities *activity.Log) *Service {
	return &Service{accounts: accounts, engine: engine, notifier: notifier, activities: activities}
}

// Send gifts amount from senderID to the account named recipientUsername.
// Both ledger legs share one reference id; if the credit leg fails the debit
// is compensated, so no money is ever lost in between.
func (s *Service) Send(ctx context.Context, senderID, recipientUsername string, amount int64) (Result, error) {
	if amount <= 0 {
		return Result{}, ErrInvalidAmount
	}

	recipient, err := s.accounts.GetByUsername(ctx, recipientUsername)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return Result{}, ErrRecipientNotFound
		}
		return Result{}, err
	}
	if recipient.ID == senderID {
		return Result{}, ErrSelfTransfer
	}

	referenceID := uuid.NewString()
	if _, err := ledger.Transfer(ctx, s.engine, senderID, recipient.ID, amount, referenceID); err != nil {
		return Result{}, err
	}

	s.activities.Append(ctx, senderID, activity.TypeBalanceSent,
		fmt.Sprintf("Sent %s to %s", formatAmount(amount), recipient.Username))
	s.activities.Append(ctx, recipient.ID, activity.TypeBalanceReceived,
		fmt.Sprintf("Received %s as a gift", formatAmount(amount)))
	s.notifier.Notify(ctx, recipient.ID, "Balance Gift Received",
		fmt.Sprintf("You have received %s as a gift from another user.", formatAmount(amount)))

	return Result{ReferenceID: referenceID, SenderID: senderID, RecipientID: recipient.ID, Amount: amount}, nil
}

func formatAmount(centimes int64) string {
	return fmt.Sprintf("%d.%02d DZD", centimes/100, centimes%100)
}
