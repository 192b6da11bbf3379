package settings

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryStore struct {
	mu      sync.Mutex
	storage map[string]Setting
}

// NewMemoryStore constructs an in-memory store for tests and dev mode.
func NewMemoryStore() Store {
	return &memoryStore{storage: make(map[string]Setting)}
}

func (s *memoryStore) Get(_ context.Context, key string) (Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.storage[Normalize(key)]
	if !ok {
		return Setting{}, ErrNotFound
	}
	return set, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) (Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := Setting{Key: Normalize(key), Value: value, UpdatedAt: time.Now().UTC()}
	s.storage[set.Key] = set
	return set, nil
}

func (s *memoryStore) List(_ context.Context) ([]Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Setting, 0, len(s.storage))
	for _, set := range s.storage {
		out = append(out, set)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
