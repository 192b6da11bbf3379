package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/boostpanel/boostpanel/internal/account"
	"github.com/boostpanel/boostpanel/internal/activity"
	"github.com/boostpanel/boostpanel/internal/catalog"
	"github.com/boostpanel/boostpanel/internal/ledger"
	"github.com/boostpanel/boostpanel/internal/notification"
)

// Service runs the order workflow: debit through the ledger engine first,
// persist the order only after the debit landed.
type Service struct {
	repo       Repository
	catalog    *catalog.Manager
	accounts   *account.Service
	engine     ledger.Engine
	notifier   *notification.Service
	activities *activity.Log
}

// NewService constructs the order workflow service.
func NewService(repo Repository, cat *catalog.Manager, accounts *account.Service, engine ledger.Engine, notifier *notification.Service, activities *activity.Log) *Service {
	return &Service{repo: repo, catalog: cat, accounts: accounts, engine: engine, notifier: notifier, activities: activities}
}

// PlaceInput captures the order placement request.
type PlaceInput struct {
	UserID    string
	ServiceID string
	Link      string
	Quantity  int64
}

// Place validates the request, debits the buyer and persists the order. On
// any debit failure no order row is written. Notifications and activity are
// best-effort and never roll back the order.
func (s *Service) Place(ctx context.Context, in PlaceInput) (Order, error) {
	svc, err := s.catalog.Get(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Order{}, ErrServiceUnavailable
		}
		return Order{}, err
	}
	if !svc.IsVisible {
		return Order{}, ErrServiceUnavailable
	}

	amount, err := svc.Quote(in.Quantity)
	if err != nil {
		return Order{}, err
	}

	if _, err := s.accounts.Get(ctx, in.UserID); err != nil {
		return Order{}, err
	}

	now := time.Now().UTC()
	o := Order{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		ServiceID: svc.ID,
		Link:      in.Link,
		Quantity:  in.Quantity,
		Amount:    amount,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := ledger.ApplyWithRetry(ctx, s.engine, ledger.ApplyInput{
		AccountID:   in.UserID,
		Delta:       -amount,
		Reason:      ledger.ReasonOrderDebit,
		ReferenceID: o.ID,
	}); err != nil && !errors.Is(err, ledger.ErrDuplicateOperation) {
		return Order{}, err
	}

	if err := s.repo.Create(ctx, o); err != nil {
		// The debit landed but the order row did not; refund with an
		// idempotent apply so a retry can not double-credit.
		_, _ = ledger.ApplyWithRetry(ctx, s.engine, ledger.ApplyInput{
			AccountID:      in.UserID,
			Delta:          amount,
			Reason:         ledger.ReasonAdminAdjust,
			ReferenceID:    o.ID,
			IdempotencyKey: "ORDER_ABORT:" + o.ID,
		})
		return Order{}, err
	}

	s.notifier.Notify(ctx, in.UserID, "Order Placed",
		fmt.Sprintf("Your order for %s has been placed successfully. Order ID: %s", svc.Name, o.ID))
	s.notifier.NotifyAdmin(ctx, "New Order",
		fmt.Sprintf("A new order has been placed for %s. Order ID: %s", svc.Name, o.ID))
	s.activities.Append(ctx, in.UserID, activity.TypeOrderPlaced,
		fmt.Sprintf("Placed order %s for %d x %s", o.ID, in.Quantity, svc.Name))

	return o, nil
}

// UpdateStatus applies an admin status change after validating the
// transition. No balance effect: refunds, when wanted, are explicit admin
// adjustments.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, next Status) (Order, error) {
	if !next.Valid() {
		return Order{}, ErrInvalidTransition
	}
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if !o.Status.CanTransition(next) {
		return Order{}, ErrInvalidTransition
	}
	now := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, orderID, next, now); err != nil {
		return Order{}, err
	}
	o.Status = next
	o.UpdatedAt = now
	return o, nil
}

// Get fetches one order.
func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	return s.repo.Get(ctx, id)
}

// ListByUser returns a user's orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListAll returns all orders for the admin console.
func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.repo.ListAll(ctx)
}
