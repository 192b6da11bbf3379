package routes

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/boostpanel/boostpanel/internal/coupon"
	"github.com/boostpanel/boostpanel/internal/ledger"
	"github.com/boostpanel/boostpanel/internal/validation"
)

type redeemCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

// RegisterCouponRoutes wires coupon redemption for users.
func RegisterCouponRoutes(r fiber.Router, coupons *coupon.Service) {
	r.Post("/coupons/redeem", func(c *fiber.Ctx) error {
		uid, err := callerID(c)
		if err != nil {
			return err
		}
		var req redeemCouponRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if err := validation.Struct(req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		redeemed, err := coupons.Redeem(c.UserContext(), uid, req.Code)
		if err != nil {
			switch {
			case errors.Is(err, coupon.ErrInvalidCode):
				return fiber.NewError(http.StatusNotFound, "invalid coupon code")
			case errors.Is(err, coupon.ErrAlreadyRedeemed):
				return fiber.NewError(http.StatusConflict, "coupon already redeemed")
			case errors.Is(err, ledger.ErrAccountBlocked):
				return fiber.NewError(http.StatusForbidden, "account is blocked")
			default:
				return fiber.NewError(http.StatusInternalServerError, "failed to redeem coupon")
			}
		}
		return c.JSON(fiber.Map{"amount": redeemed.Amount, "code": redeemed.Code})
	})
}
