package routes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/boostpanel/boostpanel/internal/account"
	"github.com/boostpanel/boostpanel/internal/activity"
	"github.com/boostpanel/boostpanel/internal/apilog"
	"github.com/boostpanel/boostpanel/internal/catalog"
	"github.com/boostpanel/boostpanel/internal/coupon"
	"github.com/boostpanel/boostpanel/internal/ledger"
	"github.com/boostpanel/boostpanel/internal/notification"
	"github.com/boostpanel/boostpanel/internal/order"
	"github.com/boostpanel/boostpanel/internal/recharge"
	"github.com/boostpanel/boostpanel/internal/settings"
	"github.com/boostpanel/boostpanel/internal/validation"
)

type adminDeps struct {
	accounts   *account.Service
	engine     ledger.Engine
	services   *catalog.Manager
	orders     *order.Service
	recharges  *recharge.Service
	coupons    *coupon.Service
	notifier   *notification.Service
	activities *activity.Log
	trail      *apilog.Trail
	settings   settings.Store
}

// RegisterAdminRoutes wires the admin console. Every route here assumes
// JWTAuth and AdminOnly already ran.
func RegisterAdminRoutes(r fiber.Router, d adminDeps) {
	registerAdminUserRoutes(r, d)
	registerAdminCatalogRoutes(r, d)
	registerAdminOrderRoutes(r, d)
	registerAdminRechargeRoutes(r, d)
	registerAdminCouponRoutes(r, d)
	registerAdminMiscRoutes(r, d)
}

func registerAdminUserRoutes(r fiber.Router, d adminDeps) {
	r.Get("/users", func(c *fiber.Ctx) error {
		accounts, err := d.accounts.List(c.UserContext())
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to list users")
		}
		out := make([]accountJSON, 0, len(accounts))
		for _, acc := range accounts {
			out = append(out, toAccountJSON(acc))
		}
		return c.JSON(fiber.Map{"users": out})
	})

	r.Get("/users/:id/entries", func(c *fiber.Ctx) error {
		entries, err := d.accounts.Entries(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, ledger.ErrAccountNotFound) {
				return fiber.NewError(http.StatusNotFound, "user not found")
			}
			return fiber.NewError(http.StatusInternalServerError, "failed to read ledger history")
		}
		return c.JSON(fiber.Map{"entries": toEntryListJSON(entries)})
	})

	r.Patch("/users/:id/block", func(c *fiber.Ctx) error {
		return setBlockFlag(c, d.accounts.SetBlocked)
	})
	r.Patch("/users/:id/email-block", func(c *fiber.Ctx) error {
		return setBlockFlag(c, d.accounts.SetEmailBlocked)
	})

	r.Post("/users/:id/balance", func(c *fiber.Ctx) error {
		var req struct {
			Amount      int64  `json:"amount" validate:"required"`
			Description string `json:"description"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if err := validation.Struct(req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}

		userID := c.Params("id")
		res, err := ledger.ApplyWithRetry(c.UserContext(), d.engine, ledger.ApplyInput{
			AccountID:   userID,
			Delta:       req.Amount,
			Reason:      ledger.ReasonAdminAdjust,
			ReferenceID: uuid.NewString(),
		})
		if err != nil {
			switch {
			case errors.Is(err, ledger.ErrAccountNotFound):
				return fiber.NewError(http.StatusNotFound, "user not found")
			case errors.Is(err, ledger.ErrInsufficientBalance):
				return fiber.NewError(http.StatusBadRequest, "deduction exceeds current balance")
			default:
				return fiber.NewError(http.StatusInternalServerError, "failed to adjust balance")
			}
		}

		kind := activity.TypeBalanceAdded
		verb := "added to"
		amount := req.Amount
		if req.Amount < 0 {
			kind = activity.TypeBalanceDeducted
			verb = "deducted from"
			amount = -req.Amount
		}
		desc := fmt.Sprintf("%d.%02d DZD %s balance by admin", amount/100, amount%100, verb)
		if req.Description != "" {
			desc = desc + ": " + req.Description
		}
		d.activities.Append(c.UserContext(), userID, kind, desc)
		d.notifier.Notify(c.UserContext(), userID, "Balance Updated", desc)

		return c.JSON(fiber.Map{"balance": res.ResultingBalance})
	})
}

func setBlockFlag(c *fiber.Ctx, set func(ctx context.Context, id string, blocked bool) error) error {
	var req struct {
		Blocked bool `json:"blocked"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := set(c.UserContext(), c.Params("id"), req.Blocked); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "user not found")
		}
		return fiber.NewError(http.StatusInternalServerError, "failed to update block flag")
	}
	return c.JSON(fiber.Map{"blocked": req.Blocked})
}

type serviceRequest struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	Category     string `json:"category" validate:"required"`
	PricePer1000 int64  `json:"price_per_1000"`
	CustomPrice  int64  `json:"custom_price"`
	MinOrder     int64  `json:"min_order" validate:"required,gt=0"`
	MaxOrder     int64  `json:"max_order" validate:"required,gt=0"`
	IsVisible    bool   `json:"is_visible"`
}

func (req serviceRequest) toInput() catalog.CreateInput {
	return catalog.CreateInput{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		PricePer1000: req.PricePer1000,
		CustomPrice:  req.CustomPrice,
		MinOrder:     req.MinOrder,
		MaxOrder:     req.MaxOrder,
		IsVisible:    req.IsVisible,
	}
}

func registerAdminCatalogRoutes(r fiber.Router, d adminDeps) {
	r.Get("/services", func(c *fiber.Ctx) error {
		all, err := d.services.All(c.UserContext())
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to list services")
		}
		return c.JSON(fiber.Map{"services": toServiceListJSON(all)})
	})

	r.Post("/services", func(c *fiber.Ctx) error {
		var req serviceRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if err := validation.Struct(req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		svc, err := d.services.Create(c.UserContext(), req.toInput())
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return c.Status(http.StatusCreated).JSON(toServiceJSON(svc))
	})

	r.Put("/services/:id", func(c *fiber.Ctx) error {
		var req serviceRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if err := validation.Struct(req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		svc, err := d.services.Update(c.UserContext(), c.Params("id"), req.toInput())
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return fiber.NewError(http.StatusNotFound, "service not found")
			}
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return c.JSON(toServiceJSON(svc))
	})

	r.Delete("/services/:id", func(c *fiber.Ctx) error {
		if err := d.services.Delete(c.UserContext(), c.Params("id")); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return fiber.NewError(http.StatusNotFound, "service not found")
			}
			return fiber.NewError(http.StatusInternalServerError, "failed to delete service")
		}
		return c.SendStatus(http.StatusNoContent)
	})
}

func registerAdminOrderRoutes(r fiber.Router, d adminDeps) {
	r.Get("/orders", func(c *fiber.Ctx) error {
		all, err := d.orders.ListAll(c.UserContext())
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to list orders")
		}
		return c.JSON(fiber.Map{"orders": toOrderListJSON(all)})
	})

	r.Patch("/orders/:id/status", func(c *fiber.Ctx) error {
		var req struct {
			Status string `json:"status" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if err := validation.Struct(req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		o, err := d.orders.UpdateStatus(c.UserContext(), c.Params("id"), order.Status(req.Status))
		if err != nil {
			switch {
			case errors.Is(err, order.ErrNotFound):
				return fiber.NewError(http.StatusNotFound, "order not found")
			case errors.Is(err, order.ErrInvalidTransition):
				return fiber.NewError(http.StatusBadRequest, "invalid status transition")
			default:
				return fiber.NewError(http.StatusInternalServerError, "failed to update order")
			}
		}
		return c.JSON(toOrderJSON(o))
	})
}

func registerAdminRechargeRoutes(r fiber.Router, d adminDeps) {
	r.Get("/recharges", func(c *fiber.Ctx) error {
		all, err := d.recharges.ListAll(c.UserContext())
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to list balance requests")
		}
		return c.JSON(fiber.Map{"requests": toRechargeListJSON(all)})
	})

	r.Post("/recharges/:id/approve", func(c *fiber.Ctx) error {
		req, err := d.recharges.Approve(c.UserContext(), c.Params("id"))
		if err != nil {
			return rechargeDecisionError(err)
		}
		return c.JSON(toRechargeJSON(req))
	})

	r.Post("/recharges/:id/reject", func(c *fiber.Ctx) error {
		req, err := d.recharges.Reject(c.UserContext(), c.Params("id"))
		if err != nil {
			return rechargeDecisionError(err)
		}
		return c.JSON(toRechargeJSON(req))
	})
}

func rechargeDecisionError(err error) error {
	switch {
	case errors.Is(err, recharge.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "balance request not found")
	case errors.Is(err, recharge.ErrNotPending):
		return fiber.NewError(http.StatusConflict, "balance request already decided")
	case errors.Is(err, ledger.ErrAccountBlocked):
		return fiber.NewError(http.StatusConflict, "account is blocked")
	case errors.Is(err, ledger.ErrStoreUnavailable):
		return fiber.NewError(http.StatusServiceUnavailable, "store unavailable, retry")
	default:
		return fiber.NewError(http.StatusInternalServerError, "failed to decide balance request")
	}
}

func registerAdminCouponRoutes(r fiber.Router, d adminDeps) {
	r.Get("/coupons", func(c *fiber.Ctx) error {
		all, err := d.coupons.List(c.UserContext())
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to list coupons")
		}
		return c.JSON(fiber.Map{"coupons": toCouponListJSON(all)})
	})

	r.Post("/coupons", func(c *fiber.Ctx) error {
		var req struct {
			Amount int64 `json:"amount" validate:"required,gt=0"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if err := validation.Struct(req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		created, err := d.coupons.Create(c.UserContext(), req.Amount)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to create coupon")
		}
		return c.Status(http.StatusCreated).JSON(toCouponJSON(created))
	})

	r.Delete("/coupons/:id", func(c *fiber.Ctx) error {
		if err := d.coupons.Delete(c.UserContext(), c.Params("id")); err != nil {
			if errors.Is(err, coupon.ErrInvalidCode) {
				return fiber.NewError(http.StatusNotFound, "coupon not found")
			}
			return fiber.NewError(http.StatusInternalServerError, "failed to delete coupon")
		}
		return c.SendStatus(http.StatusNoContent)
	})
}

func registerAdminMiscRoutes(r fiber.Router, d adminDeps) {
	r.Get("/notifications", func(c *fiber.Ctx) error {
		notes, err := d.notifier.ListAdmin(c.UserContext())
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to list notifications")
		}
		return c.JSON(fiber.Map{"notifications": toNotificationListJSON(notes)})
	})

	r.Post("/notifications", func(c *fiber.Ctx) error {
		var req struct {
			UserID  string `json:"user_id"`
			Title   string `json:"title" validate:"required"`
			Message string `json:"message" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if err := validation.Struct(req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if req.UserID == "" {
			d.notifier.NotifyAdmin(c.UserContext(), req.Title, req.Message)
		} else {
			d.notifier.Notify(c.UserContext(), req.UserID, req.Title, req.Message)
		}
		return c.SendStatus(http.StatusAccepted)
	})

	r.Get("/activity", func(c *fiber.Ctx) error {
		records, err := d.activities.ListAll(c.UserContext())
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to list activity")
		}
		return c.JSON(fiber.Map{"activity": toActivityListJSON(records)})
	})

	r.Get("/api-logs", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 100)
		records, err := d.trail.ListAll(c.UserContext(), limit)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to list api logs")
		}
		out := make([]fiber.Map, 0, len(records))
		for _, rec := range records {
			out = append(out, fiber.Map{
				"id":          rec.ID,
				"user_id":     rec.UserID,
				"method":      rec.Method,
				"path":        rec.Path,
				"status":      rec.Status,
				"duration_ms": rec.Duration.Milliseconds(),
				"request_id":  rec.RequestID,
				"created_at":  rec.CreatedAt.Format(time.RFC3339),
			})
		}
		return c.JSON(fiber.Map{"logs": out})
	})

	r.Get("/settings", func(c *fiber.Ctx) error {
		all, err := d.settings.List(c.UserContext())
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to list settings")
		}
		out := make(map[string]string, len(all))
		for _, set := range all {
			out[set.Key] = set.Value
		}
		return c.JSON(fiber.Map{"settings": out})
	})

	r.Put("/settings/:key", func(c *fiber.Ctx) error {
		var req struct {
			Value string `json:"value"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		set, err := d.settings.Set(c.UserContext(), c.Params("key"), req.Value)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to save setting")
		}
		return c.JSON(fiber.Map{"key": set.Key, "value": set.Value})
	})

	r.Get("/dashboard", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		users, err := d.accounts.List(ctx)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to count users")
		}
		orders, err := d.orders.ListAll(ctx)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to count orders")
		}
		requests, err := d.recharges.ListAll(ctx)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to count balance requests")
		}
		var pending int
		for _, req := range requests {
			if req.Status == recharge.StatusPending {
				pending++
			}
		}
		var pendingOrders int
		for _, o := range orders {
			if o.Status == order.StatusPending {
				pendingOrders++
			}
		}
		return c.JSON(fiber.Map{
			"users":            len(users),
			"orders":           len(orders),
			"pending_orders":   pendingOrders,
			"pending_requests": pending,
		})
	})
}
