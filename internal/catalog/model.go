package catalog

import (
	"errors"
	"time"
)

// ErrNotFound indicates the service does not exist.
var ErrNotFound = errors.New("service not found")

// ErrQuantityOutOfRange indicates the requested quantity violates the
// service's min/max bounds.
var ErrQuantityOutOfRange = errors.New("quantity out of range")

// Service is a catalog entry users order against. Prices are centimes per
// 1000 units; CustomPrice applies when PricePer1000 is zero.
type Service struct {
	ID           string
	Name         string
	Description  string
	Category     string
	PricePer1000 int64
	CustomPrice  int64
	MinOrder     int64
	MaxOrder     int64
	IsVisible    bool
	CreatedAt    time.Time
}

// UnitPrice returns the effective price per 1000 units.
func (s Service) UnitPrice() int64 {
	if s.PricePer1000 > 0 {
		return s.PricePer1000
	}
	return s.CustomPrice
}

// Quote computes the order amount for a quantity, rounded to the nearest
// centime, after validating the quantity bounds.
func (s Service) Quote(quantity int64) (int64, error) {
	if quantity < s.MinOrder || quantity > s.MaxOrder {
		return 0, ErrQuantityOutOfRange
	}
	return (s.UnitPrice()*quantity + 500) / 1000, nil
}
