package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/boostpanel/boostpanel/internal/logging"
)

func setupTestApp(t *testing.T) (*fiber.App, *atomic.Int64, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))

	var calls atomic.Int64
	app.Post("/orders", func(c *fiber.Ctx) error {
		calls.Add(1)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
	})

	cleanup := func() {
		cache.Close()
		mr.Close()
	}
	return app, &calls, cleanup
}

func postOrder(t *testing.T, app *fiber.App, key string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/orders", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestIdempotencyPassesThroughWithoutHeader(t *testing.T) {
	app, calls, cleanup := setupTestApp(t)
	defer cleanup()

	for i := 0; i < 2; i++ {
		if status, _ := postOrder(t, app, ""); status != fiber.StatusCreated {
			t.Fatalf("expected 201, got %d", status)
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("headerless requests must not be deduplicated, handler ran %d times", calls.Load())
	}
}

func TestIdempotencyReplaysCachedResponse(t *testing.T) {
	app, calls, cleanup := setupTestApp(t)
	defer cleanup()

	status1, body1 := postOrder(t, app, "abc123")
	if status1 != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", status1)
	}

	status2, body2 := postOrder(t, app, "abc123")
	if status2 != fiber.StatusCreated || body2 != body1 {
		t.Fatalf("expected replayed response %d %q, got %d %q", status1, body1, status2, body2)
	}
	if calls.Load() != 1 {
		t.Fatalf("handler must run once, ran %d times", calls.Load())
	}
}

func TestIdempotencyDistinctKeysRunSeparately(t *testing.T) {
	app, calls, cleanup := setupTestApp(t)
	defer cleanup()

	postOrder(t, app, "key-a")
	postOrder(t, app, "key-b")
	if calls.Load() != 2 {
		t.Fatalf("distinct keys must both run, handler ran %d times", calls.Load())
	}
}
