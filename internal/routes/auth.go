package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/boostpanel/boostpanel/internal/account"
	"github.com/boostpanel/boostpanel/internal/auth"
	"github.com/boostpanel/boostpanel/internal/validation"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	Admin       bool   `json:"admin"`
}

// RegisterAuthRoutes wires registration and login.
func RegisterAuthRoutes(r fiber.Router, accounts *account.Service, tokens *auth.Tokens, rateLimiter fiber.Handler) {
	r.Post("/auth/register", func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if err := validation.Struct(req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		acc, err := accounts.Register(c.UserContext(), account.Credentials{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			if errors.Is(err, account.ErrAlreadyExists) {
				return fiber.NewError(http.StatusConflict, "username or email already registered")
			}
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"user_id":  acc.ID,
			"username": acc.Username,
			"email":    acc.Email,
		})
	})

	r.Post("/auth/login", rateLimiter, func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if err := validation.Struct(req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		acc, err := accounts.Authenticate(c.UserContext(), account.Credentials{Email: req.Email, Password: req.Password})
		if err != nil {
			if errors.Is(err, account.ErrInvalidCredentials) {
				return fiber.NewError(http.StatusUnauthorized, "invalid credentials")
			}
			return fiber.NewError(http.StatusInternalServerError, "login failed")
		}
		if acc.IsBlocked || acc.EmailBlocked {
			return fiber.NewError(http.StatusForbidden, "account is blocked")
		}
		signed, exp, err := tokens.Issue(acc.ID, acc.IsAdmin)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "token signing failed")
		}
		return c.JSON(loginResponse{
			UserID:      acc.ID,
			Username:    acc.Username,
			AccessToken: signed,
			ExpiresIn:   int64(time.Until(exp).Seconds()),
			Admin:       acc.IsAdmin,
		})
	})
}
