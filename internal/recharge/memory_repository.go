package recharge

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Request
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Request)}
}

func (r *memoryRepository) Create(_ context.Context, req Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[req.ID] = req
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.storage[id]
	if !ok {
		return Request{}, ErrNotFound
	}
	return req, nil
}

func (r *memoryRepository) SetStatus(_ context.Context, id string, status Status, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.storage[id]
	if !ok {
		return ErrNotFound
	}
	if req.Status != StatusPending {
		return ErrNotPending
	}
	req.Status = status
	req.UpdatedAt = updatedAt
	r.storage[id] = req
	return nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID string) ([]Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Request
	for _, req := range r.storage {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *memoryRepository) ListAll(_ context.Context) ([]Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Request, 0, len(r.storage))
	for _, req := range r.storage {
		out = append(out, req)
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(requests []Request) {
	sort.SliceStable(requests, func(i, j int) bool { return requests[i].CreatedAt.After(requests[j].CreatedAt) })
}
