package coupon

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryRepository struct {
	mu      sync.Mutex
	storage map[string]Coupon
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Coupon)}
}

func (r *memoryRepository) Create(_ context.Context, c Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[c.ID] = c
	return nil
}

func (r *memoryRepository) GetByCode(_ context.Context, code string) (Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.storage {
		if c.Code == code {
			return c, nil
		}
	}
	return Coupon{}, ErrInvalidCode
}

func (r *memoryRepository) Redeem(_ context.Context, id, userID string, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.storage[id]
	if !ok {
		return ErrInvalidCode
	}
	if c.IsUsed {
		return ErrAlreadyRedeemed
	}
	c.IsUsed = true
	c.UsedBy = userID
	c.UsedAt = usedAt
	r.storage[id] = c
	return nil
}

func (r *memoryRepository) Release(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.storage[id]
	if !ok {
		return ErrInvalidCode
	}
	c.IsUsed = false
	c.UsedBy = ""
	c.UsedAt = time.Time{}
	r.storage[id] = c
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storage[id]; !ok {
		return ErrInvalidCode
	}
	delete(r.storage, id)
	return nil
}

func (r *memoryRepository) List(_ context.Context) ([]Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	coupons := make([]Coupon, 0, len(r.storage))
	for _, c := range r.storage {
		coupons = append(coupons, c)
	}
	sort.SliceStable(coupons, func(i, j int) bool { return coupons[i].CreatedAt.After(coupons[j].CreatedAt) })
	return coupons, nil
}
