package order

import (
	"context"
	"errors"
	"testing"
)

func TestListByUserRejectsMalformedID(t *testing.T) {
	// The parse check fires before any query, so no pool is needed.
	repo := NewPostgresRepository(nil)
	if _, err := repo.ListByUser(context.Background(), "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
