package routes

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/boostpanel/boostpanel/internal/gift"
	"github.com/boostpanel/boostpanel/internal/ledger"
	"github.com/boostpanel/boostpanel/internal/validation"
)

type giftRequest struct {
	Username string `json:"username" validate:"required"`
	Amount   int64  `json:"amount" validate:"required,gt=0"`
}

// RegisterGiftRoutes wires user-to-user balance gifting.
func RegisterGiftRoutes(r fiber.Router, gifts *gift.Service) {
	r.Post("/gift", func(c *fiber.Ctx) error {
		uid, err := callerID(c)
		if err != nil {
			return err
		}
		var req giftRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if err := validation.Struct(req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		res, err := gifts.Send(c.UserContext(), uid, req.Username, req.Amount)
		if err != nil {
			switch {
			case errors.Is(err, gift.ErrRecipientNotFound):
				return fiber.NewError(http.StatusNotFound, "recipient not found")
			case errors.Is(err, gift.ErrSelfTransfer):
				return fiber.NewError(http.StatusBadRequest, "cannot gift balance to yourself")
			case errors.Is(err, gift.ErrInvalidAmount):
				return fiber.NewError(http.StatusBadRequest, "amount must be positive")
			case errors.Is(err, ledger.ErrInsufficientBalance):
				return fiber.NewError(http.StatusBadRequest, "insufficient balance")
			case errors.Is(err, ledger.ErrAccountBlocked):
				return fiber.NewError(http.StatusForbidden, "account is blocked")
			default:
				return fiber.NewError(http.StatusInternalServerError, "failed to send gift")
			}
		}
		return c.JSON(fiber.Map{
			"reference_id": res.ReferenceID,
			"recipient_id": res.RecipientID,
			"amount":       res.Amount,
		})
	})
}
