package recharge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/boostpanel/boostpanel/internal/activity"
	"github.com/boostpanel/boostpanel/internal/ledger"
	"github.com/boostpanel/boostpanel/internal/notification"
)

// Service manages the recharge request workflow. Approval credits through
// the ledger engine first; the status write follows and is retried on its
// own, because the ledger call is idempotent and the status write is not.
type Service struct {
	repo       Repository
	engine     ledger.Engine
	notifier   *notification.Service
	activities *activity.Log
}

// NewService constructs a recharge service.
func NewService(repo Repository, engine ledger.Engine, notifier *notification.Service, activities *activity.Log) *Service {
	return &Service{repo: repo, engine: engine, notifier: notifier, activities: activities}
}

// SubmitInput captures a user's recharge request.
type SubmitInput struct {
	UserID           string
	Amount           int64
	ReceiptReference string
	PaymentDate      string
	PaymentTime      string
	Description      string
}

// Submit records a pending request for admin review. No balance effect.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Request, error) {
	if in.Amount <= 0 {
		return Request{}, ErrInvalidAmount
	}
	now := time.Now().UTC()
	req := Request{
		ID:               uuid.NewString(),
		UserID:           in.UserID,
		Amount:           in.Amount,
		ReceiptReference: in.ReceiptReference,
		PaymentDate:      in.PaymentDate,
		PaymentTime:      in.PaymentTime,
		Description:      in.Description,
		Status:           StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Approve credits the requester and marks the request approved. The credit
// is keyed by the request id, so re-running a half-finished approval cannot
// double-credit; it only re-attempts the status write. A concurrent opposite
// decision that wins the status write surfaces as ErrNotPending.
func (s *Service) Approve(ctx context.Context, requestID string) (Request, error) {
	req, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if req.Status != StatusPending {
		return Request{}, ErrNotPending
	}

	if _, err := ledger.ApplyWithRetry(ctx, s.engine, ledger.ApplyInput{
		AccountID:   req.UserID,
		Delta:       req.Amount,
		Reason:      ledger.ReasonRechargeCredit,
		ReferenceID: req.ID,
	}); err != nil && !errors.Is(err, ledger.ErrDuplicateOperation) {
		return Request{}, err
	}

	now := time.Now().UTC()
	if err := s.setStatusRetrying(ctx, req.ID, StatusApproved, now); err != nil {
		return Request{}, err
	}
	req.Status = StatusApproved
	req.UpdatedAt = now

	s.activities.Append(ctx, req.UserID, activity.TypeRechargeApproved,
		fmt.Sprintf("Balance request for %s was approved", formatAmount(req.Amount)))
	s.notifier.Notify(ctx, req.UserID, "Balance Recharge Approved",
		fmt.Sprintf("Your balance recharge request for %s has been approved.", formatAmount(req.Amount)))

	return req, nil
}

// Reject marks the request rejected. No balance effect.
func (s *Service) Reject(ctx context.Context, requestID string) (Request, error) {
	req, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if req.Status != StatusPending {
		return Request{}, ErrNotPending
	}

	now := time.Now().UTC()
	if err := s.repo.SetStatus(ctx, req.ID, StatusRejected, now); err != nil {
		return Request{}, err
	}
	req.Status = StatusRejected
	req.UpdatedAt = now

	s.notifier.Notify(ctx, req.UserID, "Balance Recharge Rejected",
		fmt.Sprintf("Your balance recharge request for %s has been rejected.", formatAmount(req.Amount)))

	return req, nil
}

// ListByUser returns one user's requests, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Request, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListAll returns every request for the admin console.
func (s *Service) ListAll(ctx context.Context) ([]Request, error) {
	return s.repo.ListAll(ctx)
}

var statusRetryDelays = []time.Duration{100 * time.Millisecond, 300 * time.Millisecond, 900 * time.Millisecond}

func (s *Service) setStatusRetrying(ctx context.Context, id string, status Status, updatedAt time.Time) error {
	err := s.repo.SetStatus(ctx, id, status, updatedAt)
	for attempt := 0; err != nil && retryableStatusErr(err) && attempt < len(statusRetryDelays); attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(statusRetryDelays[attempt]):
		}
		err = s.repo.SetStatus(ctx, id, status, updatedAt)
	}
	return err
}

// retryableStatusErr reports whether a decision write is worth re-attempting.
// A missing request or a lost decision race is final.
func retryableStatusErr(err error) bool {
	return !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrNotPending)
}

func formatAmount(centimes int64) string {
	return fmt.Sprintf("%d.%02d DZD", centimes/100, centimes%100)
}
