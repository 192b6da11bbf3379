package coupon

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/boostpanel/boostpanel/internal/activity"
	"github.com/boostpanel/boostpanel/internal/ledger"
	"github.com/boostpanel/boostpanel/internal/logging"
	"github.com/boostpanel/boostpanel/internal/notification"
)

func newService(led ledger.Engine) *Service {
	notifier := notification.NewService(notification.NewMemoryStore(), logging.Discard())
	activities := activity.NewLog(activity.NewMemoryStore(), logging.Discard())
	return NewService(NewMemoryRepository(), led, notifier, activities)
}

func TestGenerateCodeFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := GenerateCode()
		if len(code) != 19 {
			t.Fatalf("unexpected length for %q", code)
		}
		groups := strings.Split(code, "-")
		if len(groups) != 4 {
			t.Fatalf("expected four groups in %q", code)
		}
		for _, g := range groups {
			if len(g) != 4 {
				t.Fatalf("bad group %q in %q", g, code)
			}
			for _, c := range g {
				if !strings.ContainsRune(codeAlphabet, c) {
					t.Fatalf("character %q outside alphabet in %q", c, code)
				}
			}
		}
		if seen[code] {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = true
	}
}

func TestRedeemCreditsOnce(t *testing.T) {
	led := ledger.NewInMemory()
	ctx := context.Background()
	led.EnsureAccount(ctx, "user-1")
	svc := newService(led)

	c, err := svc.Create(ctx, 25_00)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	redeemed, err := svc.Redeem(ctx, "user-1", c.Code)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if !redeemed.IsUsed || redeemed.UsedBy != "user-1" {
		t.Fatalf("expected coupon claimed by user-1, got %+v", redeemed)
	}

	balance, _ := led.Balance(ctx, "user-1")
	if balance != 25_00 {
		t.Fatalf("expected balance 2500, got %d", balance)
	}

	if _, err := svc.Redeem(ctx, "user-1", c.Code); !errors.Is(err, ErrAlreadyRedeemed) {
		t.Fatalf("expected already redeemed, got %v", err)
	}
	balance, _ = led.Balance(ctx, "user-1")
	if balance != 25_00 {
		t.Fatalf("double credit: %d", balance)
	}
}

func TestRedeemAcceptsLowercaseAndWhitespace(t *testing.T) {
	led := ledger.NewInMemory()
	ctx := context.Background()
	led.EnsureAccount(ctx, "user-1")
	svc := newService(led)

	c, _ := svc.Create(ctx, 10_00)
	if _, err := svc.Redeem(ctx, "user-1", "  "+strings.ToLower(c.Code)+" "); err != nil {
		t.Fatalf("redeem with sloppy input: %v", err)
	}
}

func TestRedeemUnknownCode(t *testing.T) {
	svc := newService(ledger.NewInMemory())
	if _, err := svc.Redeem(context.Background(), "user-1", "AAAA-BBBB-CCCC-DDDD"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected invalid code, got %v", err)
	}
}

func TestConcurrentRedemptionsSingleWinner(t *testing.T) {
	led := ledger.NewInMemory()
	ctx := context.Background()
	led.EnsureAccount(ctx, "user-1")
	led.EnsureAccount(ctx, "user-2")
	svc := newService(led)

	c, _ := svc.Create(ctx, 40_00)

	users := []string{"user-1", "user-2", "user-1", "user-2"}
	results := make([]error, len(users))
	var wg sync.WaitGroup
	for i, u := range users {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			_, results[i] = svc.Redeem(ctx, u, c.Code)
		}(i, u)
	}
	wg.Wait()

	var wins int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrAlreadyRedeemed):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}

	b1, _ := led.Balance(ctx, "user-1")
	b2, _ := led.Balance(ctx, "user-2")
	if b1+b2 != 40_00 {
		t.Fatalf("expected a single 4000 credit in total, got %d + %d", b1, b2)
	}
}

func TestRedeemReleasesCouponWhenCreditFails(t *testing.T) {
	led := ledger.NewInMemory()
	ctx := context.Background()
	led.EnsureAccount(ctx, "user-1")
	ledger.SetBlocked(led, "user-1", true)
	svc := newService(led)

	c, _ := svc.Create(ctx, 15_00)
	if _, err := svc.Redeem(ctx, "user-1", c.Code); !errors.Is(err, ledger.ErrAccountBlocked) {
		t.Fatalf("expected blocked account error, got %v", err)
	}

	// The failed attempt must not burn the coupon.
	ledger.SetBlocked(led, "user-1", false)
	if _, err := svc.Redeem(ctx, "user-1", c.Code); err != nil {
		t.Fatalf("retry after unblock: %v", err)
	}
	balance, _ := led.Balance(ctx, "user-1")
	if balance != 15_00 {
		t.Fatalf("expected balance 1500, got %d", balance)
	}
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	svc := newService(ledger.NewInMemory())
	if _, err := svc.Create(context.Background(), 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
}

func TestDeleteRemovesCoupon(t *testing.T) {
	led := ledger.NewInMemory()
	ctx := context.Background()
	svc := newService(led)

	c, _ := svc.Create(ctx, 5_00)
	if err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Redeem(ctx, "user-1", c.Code); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("deleted coupon must be unredeemable, got %v", err)
	}
}
