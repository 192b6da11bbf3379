package order

import (
	"context"
	"errors"
	"testing"

	"github.com/boostpanel/boostpanel/internal/account"
	"github.com/boostpanel/boostpanel/internal/activity"
	"github.com/boostpanel/boostpanel/internal/catalog"
	"github.com/boostpanel/boostpanel/internal/ledger"
	"github.com/boostpanel/boostpanel/internal/logging"
	"github.com/boostpanel/boostpanel/internal/notification"
)

type fixture struct {
	svc      *Service
	led      ledger.Engine
	catalog  *catalog.Manager
	accounts *account.Service
	notes    notification.Store
	buyer    account.Account
	offering catalog.Service
}

func newFixture(t *testing.T, balance int64) *fixture {
	t.Helper()
	ctx := context.Background()

	led := ledger.NewInMemory()
	accounts := account.NewService(account.NewMemoryRepository(), led)
	cat := catalog.NewManager(catalog.NewMemoryRepository())
	notes := notification.NewMemoryStore()
	notifier := notification.NewService(notes, logging.Discard())
	activities := activity.NewLog(activity.NewMemoryStore(), logging.Discard())

	buyer, err := accounts.Register(ctx, account.Credentials{Username: "buyer", Email: "buyer@example.com", Password: "long-enough"})
	if err != nil {
		t.Fatalf("register buyer: %v", err)
	}
	ledger.SeedBalance(led, buyer.ID, balance)

	offering, err := cat.Create(ctx, catalog.CreateInput{
		Name: "IG Followers", Category: "instagram",
		PricePer1000: 400_00, MinOrder: 50, MaxOrder: 5_000, IsVisible: true,
	})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}

	return &fixture{
		svc:      NewService(NewMemoryRepository(), cat, accounts, led, notifier, activities),
		led:      led,
		catalog:  cat,
		accounts: accounts,
		notes:    notes,
		buyer:    buyer,
		offering: offering,
	}
}

func TestPlaceDebitsThenPersists(t *testing.T) {
	// balance 100.00, order of 100 units at 400.00/1000 costs 40.00
	f := newFixture(t, 100_00)
	ctx := context.Background()

	o, err := f.svc.Place(ctx, PlaceInput{UserID: f.buyer.ID, ServiceID: f.offering.ID, Link: "https://example.com/p/1", Quantity: 100})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if o.Amount != 40_00 {
		t.Fatalf("expected amount 4000, got %d", o.Amount)
	}
	if o.Status != StatusPending {
		t.Fatalf("expected pending, got %s", o.Status)
	}

	balance, _ := f.led.Balance(ctx, f.buyer.ID)
	if balance != 60_00 {
		t.Fatalf("expected balance 6000, got %d", balance)
	}

	entries, _ := f.led.Entries(ctx, f.buyer.ID)
	if len(entries) != 1 || entries[0].Reason != ledger.ReasonOrderDebit || entries[0].Delta != -40_00 {
		t.Fatalf("unexpected ledger entries: %+v", entries)
	}
	if entries[0].ReferenceID != o.ID {
		t.Fatalf("entry not keyed to order id")
	}

	// Second order costing 70.00 exceeds the remaining 60.00.
	if _, err := f.svc.Place(ctx, PlaceInput{UserID: f.buyer.ID, ServiceID: f.offering.ID, Link: "https://example.com/p/2", Quantity: 175}); !errors.Is(err, ledger.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	balance, _ = f.led.Balance(ctx, f.buyer.ID)
	if balance != 60_00 {
		t.Fatalf("failed order changed balance: %d", balance)
	}
	orders, _ := f.svc.ListByUser(ctx, f.buyer.ID)
	if len(orders) != 1 {
		t.Fatalf("rejected order was persisted, have %d orders", len(orders))
	}
}

func TestPlaceRejectsHiddenService(t *testing.T) {
	f := newFixture(t, 100_00)
	ctx := context.Background()

	hidden, _ := f.catalog.Create(ctx, catalog.CreateInput{Name: "Hidden", Category: "x", PricePer1000: 100, MinOrder: 1, MaxOrder: 10})
	if _, err := f.svc.Place(ctx, PlaceInput{UserID: f.buyer.ID, ServiceID: hidden.ID, Link: "l", Quantity: 1}); !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected service unavailable, got %v", err)
	}
	if _, err := f.svc.Place(ctx, PlaceInput{UserID: f.buyer.ID, ServiceID: "3f2e4d7c-0000-0000-0000-000000000000", Link: "l", Quantity: 1}); !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected service unavailable for unknown id, got %v", err)
	}
}

func TestPlaceRejectsQuantityOutOfRange(t *testing.T) {
	f := newFixture(t, 1_000_00)
	ctx := context.Background()

	if _, err := f.svc.Place(ctx, PlaceInput{UserID: f.buyer.ID, ServiceID: f.offering.ID, Link: "l", Quantity: 10}); !errors.Is(err, catalog.ErrQuantityOutOfRange) {
		t.Fatalf("expected quantity error, got %v", err)
	}
	balance, _ := f.led.Balance(ctx, f.buyer.ID)
	if balance != 1_000_00 {
		t.Fatalf("validation failure touched balance: %d", balance)
	}
}

func TestPlaceUnknownUser(t *testing.T) {
	f := newFixture(t, 0)
	if _, err := f.svc.Place(context.Background(), PlaceInput{UserID: "nope", ServiceID: f.offering.ID, Link: "l", Quantity: 100}); !errors.Is(err, account.ErrNotFound) {
		t.Fatalf("expected account not found, got %v", err)
	}
}

func TestPlaceEmitsNotifications(t *testing.T) {
	f := newFixture(t, 100_00)
	ctx := context.Background()

	if _, err := f.svc.Place(ctx, PlaceInput{UserID: f.buyer.ID, ServiceID: f.offering.ID, Link: "l", Quantity: 100}); err != nil {
		t.Fatalf("place: %v", err)
	}

	userNotes, _ := f.notes.ListByUser(ctx, f.buyer.ID)
	if len(userNotes) != 1 || userNotes[0].Title != "Order Placed" {
		t.Fatalf("expected one user notification, got %+v", userNotes)
	}
	adminNotes, _ := f.notes.ListAdmin(ctx)
	if len(adminNotes) != 1 || adminNotes[0].Title != "New Order" {
		t.Fatalf("expected one admin notification, got %+v", adminNotes)
	}
}

func TestUpdateStatusFollowsStateMachine(t *testing.T) {
	f := newFixture(t, 100_00)
	ctx := context.Background()

	o, err := f.svc.Place(ctx, PlaceInput{UserID: f.buyer.ID, ServiceID: f.offering.ID, Link: "l", Quantity: 100})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	if _, err := f.svc.UpdateStatus(ctx, o.ID, StatusCompleted); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pending cannot jump to completed, got %v", err)
	}

	o2, err := f.svc.UpdateStatus(ctx, o.ID, StatusProcessing)
	if err != nil {
		t.Fatalf("pending -> processing: %v", err)
	}
	if o2.Status != StatusProcessing {
		t.Fatalf("status not updated: %s", o2.Status)
	}

	if _, err := f.svc.UpdateStatus(ctx, o.ID, StatusCanceled); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("processing cannot cancel, got %v", err)
	}

	if _, err := f.svc.UpdateStatus(ctx, o.ID, StatusCompleted); err != nil {
		t.Fatalf("processing -> completed: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, o.ID, StatusFailed); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("completed is terminal, got %v", err)
	}

	if _, err := f.svc.UpdateStatus(ctx, o.ID, Status("bogus")); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("unknown status must be rejected, got %v", err)
	}

	// Status changes never touch the balance.
	balance, _ := f.led.Balance(context.Background(), f.buyer.ID)
	if balance != 60_00 {
		t.Fatalf("status updates changed balance: %d", balance)
	}
}

func TestConcurrentPlacementsRespectBalance(t *testing.T) {
	// balance 100.00, each order costs 40.00: exactly 2 can win.
	f := newFixture(t, 100_00)
	ctx := context.Background()

	const workers = 8
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			_, err := f.svc.Place(ctx, PlaceInput{UserID: f.buyer.ID, ServiceID: f.offering.ID, Link: "l", Quantity: 100})
			results <- err
		}()
	}

	var wins int
	for i := 0; i < workers; i++ {
		err := <-results
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ledger.ErrInsufficientBalance):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 2 {
		t.Fatalf("expected 2 successful orders, got %d", wins)
	}
	balance, _ := f.led.Balance(ctx, f.buyer.ID)
	if balance != 20_00 {
		t.Fatalf("expected balance 2000, got %d", balance)
	}
}
