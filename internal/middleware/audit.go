package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/boostpanel/boostpanel/internal/apilog"
	"github.com/boostpanel/boostpanel/internal/metrics"
)

// Audit emits a structured log line per request, bumps the request counter
// and feeds the persistent API trail. Trail and metrics may be nil.
func Audit(logger *slog.Logger, trail *apilog.Trail, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		duration := time.Since(start)
		requestID, _ := c.Locals(requestIDHeader).(string)
		userID, _ := c.Locals("user_id").(string)

		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("duration", duration),
		}
		if requestID != "" {
			attrs = append(attrs, slog.String("request_id", requestID))
		}
		if userID != "" {
			attrs = append(attrs, slog.String("user_id", userID))
		}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
			logger.Error("request completed", attrs...)
		} else {
			logger.Info("request completed", attrs...)
		}

		if m != nil {
			m.HTTPRequests.WithLabelValues(c.Method(), strconv.Itoa(status)).Inc()
		}
		if trail != nil {
			trail.Append(c.UserContext(), apilog.Record{
				UserID:    userID,
				Method:    c.Method(),
				Path:      c.Path(),
				Status:    status,
				Duration:  duration,
				RequestID: requestID,
			})
		}

		return err
	}
}
