package catalog

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Service
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Service)}
}

func (r *memoryRepository) Create(_ context.Context, svc Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[svc.ID] = svc
	return nil
}

func (r *memoryRepository) Update(_ context.Context, svc Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storage[svc.ID]; !ok {
		return ErrNotFound
	}
	r.storage[svc.ID] = svc
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storage[id]; !ok {
		return ErrNotFound
	}
	delete(r.storage, id)
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	svc, ok := r.storage[id]
	if !ok {
		return Service{}, ErrNotFound
	}
	return svc, nil
}

func (r *memoryRepository) List(_ context.Context, visibleOnly bool) ([]Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	services := make([]Service, 0, len(r.storage))
	for _, svc := range r.storage {
		if visibleOnly && !svc.IsVisible {
			continue
		}
		services = append(services, svc)
	}
	sort.Slice(services, func(i, j int) bool {
		if services[i].Category != services[j].Category {
			return services[i].Category < services[j].Category
		}
		return services[i].Name < services[j].Name
	})
	return services, nil
}
