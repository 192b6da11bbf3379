package catalog

import (
	"context"
	"errors"
	"testing"
)

func TestQuoteUsesPricePer1000(t *testing.T) {
	svc := Service{PricePer1000: 2_50, MinOrder: 100, MaxOrder: 10_000}

	amount, err := svc.Quote(1_000)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if amount != 2_50 {
		t.Fatalf("expected 250 centimes, got %d", amount)
	}

	// 500 units at 2.50 per 1000 = 1.25
	amount, err = svc.Quote(500)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if amount != 1_25 {
		t.Fatalf("expected 125 centimes, got %d", amount)
	}
}

func TestQuoteFallsBackToCustomPrice(t *testing.T) {
	svc := Service{CustomPrice: 10_00, MinOrder: 1, MaxOrder: 100}
	amount, err := svc.Quote(100)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if amount != 1_00 {
		t.Fatalf("expected 100 centimes, got %d", amount)
	}
}

func TestQuoteRoundsToNearestCentime(t *testing.T) {
	svc := Service{PricePer1000: 1_00, MinOrder: 1, MaxOrder: 1_000}
	// 5 units at 1.00 per 1000 = 0.005 -> rounds to 0.01
	amount, err := svc.Quote(5)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if amount != 1 {
		t.Fatalf("expected 1 centime, got %d", amount)
	}
}

func TestQuoteEnforcesBounds(t *testing.T) {
	svc := Service{PricePer1000: 100, MinOrder: 100, MaxOrder: 1_000}
	if _, err := svc.Quote(99); !errors.Is(err, ErrQuantityOutOfRange) {
		t.Fatalf("expected out of range below min, got %v", err)
	}
	if _, err := svc.Quote(1_001); !errors.Is(err, ErrQuantityOutOfRange) {
		t.Fatalf("expected out of range above max, got %v", err)
	}
}

func TestManagerCRUD(t *testing.T) {
	m := NewManager(NewMemoryRepository())
	ctx := context.Background()

	svc, err := m.Create(ctx, CreateInput{Name: "IG Followers", Category: "instagram", PricePer1000: 5_00, MinOrder: 100, MaxOrder: 10_000, IsVisible: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	hidden, err := m.Create(ctx, CreateInput{Name: "TT Likes", Category: "tiktok", CustomPrice: 3_00, MinOrder: 10, MaxOrder: 1_000})
	if err != nil {
		t.Fatalf("create hidden: %v", err)
	}

	visible, err := m.Visible(ctx)
	if err != nil {
		t.Fatalf("visible: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != svc.ID {
		t.Fatalf("expected only the visible service, got %d", len(visible))
	}

	all, _ := m.All(ctx)
	if len(all) != 2 {
		t.Fatalf("expected 2 services, got %d", len(all))
	}

	updated, err := m.Update(ctx, hidden.ID, CreateInput{Name: "TT Likes", Category: "tiktok", CustomPrice: 3_00, MinOrder: 10, MaxOrder: 1_000, IsVisible: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsVisible {
		t.Fatal("update did not flip visibility")
	}

	if err := m.Delete(ctx, svc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.Get(ctx, svc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	m := NewManager(NewMemoryRepository())
	ctx := context.Background()

	if _, err := m.Create(ctx, CreateInput{Category: "x", PricePer1000: 1, MinOrder: 1, MaxOrder: 2}); err == nil {
		t.Fatal("expected missing name error")
	}
	if _, err := m.Create(ctx, CreateInput{Name: "x", Category: "x", MinOrder: 1, MaxOrder: 2}); err == nil {
		t.Fatal("expected missing price error")
	}
	if _, err := m.Create(ctx, CreateInput{Name: "x", Category: "x", PricePer1000: 1, MinOrder: 5, MaxOrder: 2}); err == nil {
		t.Fatal("expected bounds error")
	}
}
