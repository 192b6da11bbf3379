package notification

import (
	"context"
	"sort"
	"sync"
)

type memoryStore struct {
	mu      sync.RWMutex
	storage []Notification
}

// NewMemoryStore constructs an in-memory store for tests.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) Insert(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storage = append(s.storage, n)
	return nil
}

func (s *memoryStore) ListByUser(_ context.Context, userID string) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Notification
	for _, n := range s.storage {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *memoryStore) ListAdmin(_ context.Context) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Notification
	for _, n := range s.storage {
		if n.IsAdmin {
			out = append(out, n)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *memoryStore) MarkRead(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.storage {
		if n.ID == id && n.UserID == userID {
			s.storage[i].IsRead = true
			return nil
		}
	}
	return ErrNotFound
}

func sortNewestFirst(ns []Notification) {
	sort.SliceStable(ns, func(i, j int) bool { return ns[i].CreatedAt.After(ns[j].CreatedAt) })
}
