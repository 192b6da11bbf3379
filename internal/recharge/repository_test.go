package recharge

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSetStatusIsOneShot(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	now := time.Now().UTC()
	if err := repo.Create(ctx, Request{ID: "req-1", UserID: "user-1", Amount: 50_00, Status: StatusPending, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.SetStatus(ctx, "req-1", StatusApproved, now); err != nil {
		t.Fatalf("first decision: %v", err)
	}

	// A racing opposite decision that read the request while it was still
	// pending must lose instead of overwriting the first write.
	if err := repo.SetStatus(ctx, "req-1", StatusRejected, now); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected lost race, got %v", err)
	}
	req, err := repo.Get(ctx, "req-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if req.Status != StatusApproved {
		t.Fatalf("decision overwritten: %s", req.Status)
	}

	if err := repo.SetStatus(ctx, "ghost", StatusRejected, now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListByUserRejectsMalformedID(t *testing.T) {
	// The parse check fires before any query, so no pool is needed.
	repo := NewPostgresRepository(nil)
	if _, err := repo.ListByUser(context.Background(), "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
