package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Manager exposes catalog operations for the storefront and the admin console.
type Manager struct {
	repo Repository
}

// NewManager creates a catalog manager.
func NewManager(repo Repository) *Manager {
	return &Manager{repo: repo}
}

// CreateInput captures admin-provided service data.
type CreateInput struct {
	Name         string
	Description  string
	Category     string
	PricePer1000 int64
	CustomPrice  int64
	MinOrder     int64
	MaxOrder     int64
	IsVisible    bool
}

func (in CreateInput) validate() error {
	if in.Name == "" || in.Category == "" {
		return errors.New("name and category are required")
	}
	if in.PricePer1000 <= 0 && in.CustomPrice <= 0 {
		return errors.New("a positive price is required")
	}
	if in.MinOrder <= 0 || in.MaxOrder < in.MinOrder {
		return errors.New("order bounds are invalid")
	}
	return nil
}

// Create adds a service to the catalog.
func (m *Manager) Create(ctx context.Context, in CreateInput) (Service, error) {
	if err := in.validate(); err != nil {
		return Service{}, err
	}
	svc := Service{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		PricePer1000: in.PricePer1000,
		CustomPrice:  in.CustomPrice,
		MinOrder:     in.MinOrder,
		MaxOrder:     in.MaxOrder,
		IsVisible:    in.IsVisible,
		CreatedAt:    time.Now().UTC(),
	}
	if err := m.repo.Create(ctx, svc); err != nil {
		return Service{}, err
	}
	return svc, nil
}

// Update replaces the mutable fields of an existing service.
func (m *Manager) Update(ctx context.Context, id string, in CreateInput) (Service, error) {
	if err := in.validate(); err != nil {
		return Service{}, err
	}
	svc, err := m.repo.Get(ctx, id)
	if err != nil {
		return Service{}, err
	}
	svc.Name = in.Name
	svc.Description = in.Description
	svc.Category = in.Category
	svc.PricePer1000 = in.PricePer1000
	svc.CustomPrice = in.CustomPrice
	svc.MinOrder = in.MinOrder
	svc.MaxOrder = in.MaxOrder
	svc.IsVisible = in.IsVisible
	if err := m.repo.Update(ctx, svc); err != nil {
		return Service{}, err
	}
	return svc, nil
}

// Delete removes a service.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.repo.Delete(ctx, id)
}

// Get fetches one service.
func (m *Manager) Get(ctx context.Context, id string) (Service, error) {
	return m.repo.Get(ctx, id)
}

// Visible lists storefront services.
func (m *Manager) Visible(ctx context.Context) ([]Service, error) {
	return m.repo.List(ctx, true)
}

// All lists every service for the admin console.
func (m *Manager) All(ctx context.Context) ([]Service, error) {
	return m.repo.List(ctx, false)
}
