package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func requestIDFor(t *testing.T, incoming string) string {
	t.Helper()
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(fiber.MethodGet, "/ping", nil)
	if incoming != "" {
		req.Header.Set(requestIDHeader, incoming)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	return resp.Header.Get(requestIDHeader)
}

func TestRequestIDKeepsWellFormedID(t *testing.T) {
	id := uuid.NewString()
	if got := requestIDFor(t, id); got != id {
		t.Fatalf("expected %s to survive, got %s", id, got)
	}
}

func TestRequestIDReplacesMissingOrMalformedID(t *testing.T) {
	for _, incoming := range []string{"", "not-a-uuid", "42; DROP TABLE api_logs"} {
		got := requestIDFor(t, incoming)
		if _, err := uuid.Parse(got); err != nil {
			t.Fatalf("incoming %q: response id %q is not a uuid", incoming, got)
		}
		if got == incoming {
			t.Fatalf("malformed id %q was kept", incoming)
		}
	}
}
