package routes

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/boostpanel/boostpanel/internal/account"
	"github.com/boostpanel/boostpanel/internal/activity"
	"github.com/boostpanel/boostpanel/internal/notification"
	"github.com/boostpanel/boostpanel/internal/order"
)

func callerID(c *fiber.Ctx) (string, error) {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return "", fiber.NewError(http.StatusUnauthorized, "not authenticated")
	}
	return uid, nil
}

// RegisterMeRoutes wires the authenticated user's own profile, balance,
// orders, notifications and activity.
func RegisterMeRoutes(r fiber.Router, accounts *account.Service, orders *order.Service, notifier *notification.Service, activities *activity.Log) {
	r.Get("/", func(c *fiber.Ctx) error {
		uid, err := callerID(c)
		if err != nil {
			return err
		}
		acc, err := accounts.Get(c.UserContext(), uid)
		if err != nil {
			if errors.Is(err, account.ErrNotFound) {
				return fiber.NewError(http.StatusNotFound, "account not found")
			}
			return fiber.NewError(http.StatusInternalServerError, "failed to load account")
		}
		if balance, err := accounts.Balance(c.UserContext(), uid); err == nil {
			acc.Balance = balance
		}
		return c.JSON(toAccountJSON(acc))
	})

	r.Get("/balance", func(c *fiber.Ctx) error {
		uid, err := callerID(c)
		if err != nil {
			return err
		}
		balance, err := accounts.Balance(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to read balance")
		}
		return c.JSON(fiber.Map{"balance": balance})
	})

	r.Get("/entries", func(c *fiber.Ctx) error {
		uid, err := callerID(c)
		if err != nil {
			return err
		}
		entries, err := accounts.Entries(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to read ledger history")
		}
		return c.JSON(fiber.Map{"entries": toEntryListJSON(entries)})
	})

	r.Get("/orders", func(c *fiber.Ctx) error {
		uid, err := callerID(c)
		if err != nil {
			return err
		}
		list, err := orders.ListByUser(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to list orders")
		}
		return c.JSON(fiber.Map{"orders": toOrderListJSON(list)})
	})

	r.Get("/notifications", func(c *fiber.Ctx) error {
		uid, err := callerID(c)
		if err != nil {
			return err
		}
		notes, err := notifier.ListByUser(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to list notifications")
		}
		return c.JSON(fiber.Map{"notifications": toNotificationListJSON(notes)})
	})

	r.Patch("/notifications/:id/read", func(c *fiber.Ctx) error {
		uid, err := callerID(c)
		if err != nil {
			return err
		}
		if err := notifier.MarkRead(c.UserContext(), c.Params("id"), uid); err != nil {
			if errors.Is(err, notification.ErrNotFound) {
				return fiber.NewError(http.StatusNotFound, "notification not found")
			}
			return fiber.NewError(http.StatusInternalServerError, "failed to mark notification read")
		}
		return c.JSON(fiber.Map{"status": "read"})
	})

	r.Get("/activity", func(c *fiber.Ctx) error {
		uid, err := callerID(c)
		if err != nil {
			return err
		}
		records, err := activities.ListByUser(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to list activity")
		}
		return c.JSON(fiber.Map{"activity": toActivityListJSON(records)})
	})
}
