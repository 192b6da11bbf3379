package gift

import (
	"context"
	"errors"
	"testing"

	"github.com/boostpanel/boostpanel/internal/account"
	"github.com/boostpanel/boostpanel/internal/activity"
	"github.com/boostpanel/boostpanel/internal/ledger"
	"github.com/boostpanel/boostpanel/internal/logging"
	"github.com/boostpanel/boostpanel/internal/notification"
)

type fixture struct {
	svc      *Service
	accounts *account.Service
	led      ledger.Engine
	notes    notification.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	led := ledger.NewInMemory()
	accounts := account.NewService(account.NewMemoryRepository(), led)
	notes := notification.NewMemoryStore()
	notifier := notification.NewService(notes, logging.Discard())
	activities := activity.NewLog(activity.NewMemoryStore(), logging.Discard())
	return &fixture{
		svc:      NewService(accounts, led, notifier, activities),
		accounts: accounts,
		led:      led,
		notes:    notes,
	}
}

func (f *fixture) register(t *testing.T, username string, balance int64) account.Account {
	t.Helper()
	acc, err := f.accounts.Register(context.Background(), account.Credentials{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	if balance > 0 {
		ledger.SeedBalance(f.led, acc.ID, balance)
	}
	return acc
}

func TestSendMovesBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", 60_00)
	bob := f.register(t, "bob", 0)

	res, err := f.svc.Send(ctx, alice.ID, "bob", 20_00)
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	aliceBalance, _ := f.led.Balance(ctx, alice.ID)
	bobBalance, _ := f.led.Balance(ctx, bob.ID)
	if aliceBalance != 40_00 || bobBalance != 20_00 {
		t.Fatalf("expected 4000/2000, got %d/%d", aliceBalance, bobBalance)
	}

	// Both legs carry the same reference id.
	out := lastEntry(t, f.led, alice.ID)
	in := lastEntry(t, f.led, bob.ID)
	if out.Reason != ledger.ReasonTransferOut || in.Reason != ledger.ReasonTransferIn {
		t.Fatalf("unexpected reasons: %s / %s", out.Reason, in.Reason)
	}
	if out.ReferenceID != res.ReferenceID || in.ReferenceID != res.ReferenceID {
		t.Fatalf("reference ids do not match: %s / %s / %s", out.ReferenceID, in.ReferenceID, res.ReferenceID)
	}

	bobNotes, _ := f.notes.ListByUser(ctx, bob.ID)
	if len(bobNotes) != 1 || bobNotes[0].Title != "Balance Gift Received" {
		t.Fatalf("expected gift notification, got %+v", bobNotes)
	}
}

func TestSendRejectsSelfTransfer(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice", 60_00)

	if _, err := f.svc.Send(context.Background(), alice.ID, "alice", 10_00); !errors.Is(err, ErrSelfTransfer) {
		t.Fatalf("expected self transfer rejection, got %v", err)
	}
	balance, _ := f.led.Balance(context.Background(), alice.ID)
	if balance != 60_00 {
		t.Fatalf("self transfer changed balance: %d", balance)
	}
}

func TestSendRejectsUnknownRecipient(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice", 60_00)

	if _, err := f.svc.Send(context.Background(), alice.ID, "nobody", 10_00); !errors.Is(err, ErrRecipientNotFound) {
		t.Fatalf("expected recipient not found, got %v", err)
	}
}

func TestSendRejectsInsufficientBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", 5_00)
	bob := f.register(t, "bob", 0)

	if _, err := f.svc.Send(ctx, alice.ID, "bob", 10_00); !errors.Is(err, ledger.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	aliceBalance, _ := f.led.Balance(ctx, alice.ID)
	bobBalance, _ := f.led.Balance(ctx, bob.ID)
	if aliceBalance != 5_00 || bobBalance != 0 {
		t.Fatalf("failed gift moved money: %d/%d", aliceBalance, bobBalance)
	}
}

func TestSendRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice", 60_00)
	f.register(t, "bob", 0)

	for _, amount := range []int64{0, -100} {
		if _, err := f.svc.Send(context.Background(), alice.ID, "bob", amount); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %d: expected invalid amount, got %v", amount, err)
		}
	}
}

func TestSendCompensatesWhenRecipientBlocked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", 60_00)
	bob := f.register(t, "bob", 0)
	ledger.SetBlocked(f.led, bob.ID, true)

	if _, err := f.svc.Send(ctx, alice.ID, "bob", 20_00); !errors.Is(err, ledger.ErrAccountBlocked) {
		t.Fatalf("expected blocked recipient error, got %v", err)
	}

	// The debit leg was compensated; the sender is whole again.
	aliceBalance, _ := f.led.Balance(ctx, alice.ID)
	if aliceBalance != 60_00 {
		t.Fatalf("expected sender restored to 6000, got %d", aliceBalance)
	}
	bobBalance, _ := f.led.Balance(ctx, bob.ID)
	if bobBalance != 0 {
		t.Fatalf("blocked recipient received funds: %d", bobBalance)
	}
}

func lastEntry(t *testing.T, led ledger.Engine, accountID string) ledger.Entry {
	t.Helper()
	entries, err := led.Entries(context.Background(), accountID)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("no entries for %s", accountID)
	}
	return entries[len(entries)-1]
}
