package routes

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/boostpanel/boostpanel/internal/recharge"
	"github.com/boostpanel/boostpanel/internal/validation"
)

type submitRechargeRequest struct {
	Amount           int64  `json:"amount" validate:"required,gt=0"`
	ReceiptReference string `json:"receipt_reference" validate:"required"`
	PaymentDate      string `json:"payment_date"`
	PaymentTime      string `json:"payment_time"`
	Description      string `json:"description"`
}

// RegisterRechargeRoutes wires the user side of the balance request workflow.
func RegisterRechargeRoutes(r fiber.Router, recharges *recharge.Service) {
	r.Post("/recharges", func(c *fiber.Ctx) error {
		uid, err := callerID(c)
		if err != nil {
			return err
		}
		var req submitRechargeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if err := validation.Struct(req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		request, err := recharges.Submit(c.UserContext(), recharge.SubmitInput{
			UserID:           uid,
			Amount:           req.Amount,
			ReceiptReference: req.ReceiptReference,
			PaymentDate:      req.PaymentDate,
			PaymentTime:      req.PaymentTime,
			Description:      req.Description,
		})
		if err != nil {
			if errors.Is(err, recharge.ErrInvalidAmount) {
				return fiber.NewError(http.StatusBadRequest, "amount must be positive")
			}
			return fiber.NewError(http.StatusInternalServerError, "failed to submit balance request")
		}
		return c.Status(http.StatusCreated).JSON(toRechargeJSON(request))
	})

	r.Get("/recharges", func(c *fiber.Ctx) error {
		uid, err := callerID(c)
		if err != nil {
			return err
		}
		requests, err := recharges.ListByUser(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "failed to list balance requests")
		}
		return c.JSON(fiber.Map{"requests": toRechargeListJSON(requests)})
	})
}
