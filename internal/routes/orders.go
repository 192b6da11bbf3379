package routes

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/boostpanel/boostpanel/internal/account"
	"github.com/boostpanel/boostpanel/internal/catalog"
	"github.com/boostpanel/boostpanel/internal/ledger"
	"github.com/boostpanel/boostpanel/internal/metrics"
	"github.com/boostpanel/boostpanel/internal/order"
)

type placeOrderRequest struct {
	ServiceID string `json:"service_id"`
	Link      string `json:"link"`
	Quantity  int64  `json:"quantity"`
	UserID    string `json:"user_id"`
}

// RegisterOrderRoutes wires the order placement endpoint. The request and
// response shapes, messages and status codes here are a frozen contract with
// existing panel frontends; change the workflow behind it, never the surface.
func RegisterOrderRoutes(r fiber.Router, orders *order.Service, services *catalog.Manager, m *metrics.Metrics) {
	r.Post("/orders", func(c *fiber.Ctx) error {
		var req placeOrderRequest
		if err := c.BodyParser(&req); err != nil {
			return orderFailure(c, http.StatusBadRequest, "Missing required fields: service_id, link, quantity, or user_id")
		}
		if req.ServiceID == "" || req.Link == "" || req.Quantity == 0 || req.UserID == "" {
			return orderFailure(c, http.StatusBadRequest, "Missing required fields: service_id, link, quantity, or user_id")
		}

		o, err := orders.Place(c.UserContext(), order.PlaceInput{
			UserID:    req.UserID,
			ServiceID: req.ServiceID,
			Link:      req.Link,
			Quantity:  req.Quantity,
		})
		if err != nil {
			return orderError(c, req, services, err)
		}

		if m != nil {
			m.OrdersPlaced.Inc()
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Order placed successfully",
			"order":   toOrderJSON(o),
		})
	})
}

func orderError(c *fiber.Ctx, req placeOrderRequest, services *catalog.Manager, err error) error {
	switch {
	case errors.Is(err, order.ErrServiceUnavailable):
		return orderFailure(c, http.StatusNotFound, "Service not found or unavailable")
	case errors.Is(err, catalog.ErrQuantityOutOfRange):
		msg := "Quantity out of range"
		if svc, svcErr := services.Get(c.UserContext(), req.ServiceID); svcErr == nil {
			msg = fmt.Sprintf("Quantity must be between %d and %d", svc.MinOrder, svc.MaxOrder)
		}
		return orderFailure(c, http.StatusBadRequest, msg)
	case errors.Is(err, account.ErrNotFound), errors.Is(err, ledger.ErrAccountNotFound):
		return orderFailure(c, http.StatusNotFound, "User not found")
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return orderFailure(c, http.StatusBadRequest, "Insufficient balance")
	case errors.Is(err, ledger.ErrAccountBlocked):
		return orderFailure(c, http.StatusBadRequest, "Account is blocked")
	default:
		return orderFailure(c, http.StatusInternalServerError, "Failed to create order")
	}
}

func orderFailure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}
