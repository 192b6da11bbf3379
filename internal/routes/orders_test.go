package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/boostpanel/boostpanel/internal/account"
	"github.com/boostpanel/boostpanel/internal/activity"
	"github.com/boostpanel/boostpanel/internal/catalog"
	"github.com/boostpanel/boostpanel/internal/ledger"
	"github.com/boostpanel/boostpanel/internal/logging"
	"github.com/boostpanel/boostpanel/internal/notification"
	"github.com/boostpanel/boostpanel/internal/order"
)

type orderTestEnv struct {
	app     *fiber.App
	led     ledger.Engine
	userID  string
	svcID   string
	hidden  string
	minimum int64
	maximum int64
}

func newOrderTestEnv(t *testing.T) *orderTestEnv {
	t.Helper()
	ctx := context.Background()

	led := ledger.NewInMemory()
	accounts := account.NewService(account.NewMemoryRepository(), led)
	services := catalog.NewManager(catalog.NewMemoryRepository())
	notifier := notification.NewService(notification.NewMemoryStore(), logging.Discard())
	activities := activity.NewLog(activity.NewMemoryStore(), logging.Discard())
	orders := order.NewService(order.NewMemoryRepository(), services, accounts, led, notifier, activities)

	acc, err := accounts.Register(ctx, account.Credentials{Username: "buyer", Email: "buyer@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	ledger.SeedBalance(led, acc.ID, 100_00)

	svc, err := services.Create(ctx, catalog.CreateInput{
		Name: "Instagram Followers", Category: "instagram",
		PricePer1000: 400_00, MinOrder: 50, MaxOrder: 5000, IsVisible: true,
	})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	hidden, err := services.Create(ctx, catalog.CreateInput{
		Name: "Hidden", Category: "other",
		PricePer1000: 100_00, MinOrder: 1, MaxOrder: 100, IsVisible: false,
	})
	if err != nil {
		t.Fatalf("create hidden service: %v", err)
	}

	app := fiber.New()
	RegisterOrderRoutes(app.Group("/api/v1"), orders, services, nil)

	return &orderTestEnv{
		app: app, led: led, userID: acc.ID,
		svcID: svc.ID, hidden: hidden.ID,
		minimum: svc.MinOrder, maximum: svc.MaxOrder,
	}
}

type orderResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Order   json.RawMessage `json:"order"`
}

func (e *orderTestEnv) place(t *testing.T, body map[string]any) (int, orderResponse) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/orders", bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	var decoded orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, decoded
}

func TestPlaceOrderSuccess(t *testing.T) {
	env := newOrderTestEnv(t)

	status, resp := env.place(t, map[string]any{
		"service_id": env.svcID, "link": "https://instagram.com/p/x", "quantity": 100, "user_id": env.userID,
	})
	if status != fiber.StatusOK || !resp.Success {
		t.Fatalf("expected success, got %d %+v", status, resp)
	}
	if resp.Message != "Order placed successfully" {
		t.Fatalf("unexpected message %q", resp.Message)
	}

	var placed orderJSON
	if err := json.Unmarshal(resp.Order, &placed); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if placed.Amount != 40_00 || placed.Status != "pending" || placed.UserID != env.userID {
		t.Fatalf("unexpected order %+v", placed)
	}

	balance, _ := env.led.Balance(context.Background(), env.userID)
	if balance != 60_00 {
		t.Fatalf("expected balance 6000 after debit, got %d", balance)
	}
}

func TestPlaceOrderMissingFields(t *testing.T) {
	env := newOrderTestEnv(t)

	status, resp := env.place(t, map[string]any{"service_id": env.svcID, "quantity": 100})
	if status != fiber.StatusBadRequest || resp.Success {
		t.Fatalf("expected 400, got %d %+v", status, resp)
	}
	if resp.Message != "Missing required fields: service_id, link, quantity, or user_id" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestPlaceOrderUnknownService(t *testing.T) {
	env := newOrderTestEnv(t)

	status, resp := env.place(t, map[string]any{
		"service_id": "3b9c8d98-3d3c-4b9e-9d5f-2a1f6f6f6f6f", "link": "https://x", "quantity": 100, "user_id": env.userID,
	})
	if status != fiber.StatusNotFound || resp.Message != "Service not found or unavailable" {
		t.Fatalf("expected 404 service message, got %d %q", status, resp.Message)
	}
}

func TestPlaceOrderHiddenService(t *testing.T) {
	env := newOrderTestEnv(t)

	status, resp := env.place(t, map[string]any{
		"service_id": env.hidden, "link": "https://x", "quantity": 10, "user_id": env.userID,
	})
	if status != fiber.StatusNotFound || resp.Message != "Service not found or unavailable" {
		t.Fatalf("expected 404 for hidden service, got %d %q", status, resp.Message)
	}
}

func TestPlaceOrderQuantityOutOfRange(t *testing.T) {
	env := newOrderTestEnv(t)

	status, resp := env.place(t, map[string]any{
		"service_id": env.svcID, "link": "https://x", "quantity": 10, "user_id": env.userID,
	})
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	want := fmt.Sprintf("Quantity must be between %d and %d", env.minimum, env.maximum)
	if resp.Message != want {
		t.Fatalf("expected %q, got %q", want, resp.Message)
	}
}

func TestPlaceOrderUnknownUser(t *testing.T) {
	env := newOrderTestEnv(t)

	status, resp := env.place(t, map[string]any{
		"service_id": env.svcID, "link": "https://x", "quantity": 100, "user_id": "9b9c8d98-3d3c-4b9e-9d5f-2a1f6f6f6f6f",
	})
	if status != fiber.StatusNotFound || resp.Message != "User not found" {
		t.Fatalf("expected 404 user message, got %d %q", status, resp.Message)
	}
}

func TestPlaceOrderInsufficientBalance(t *testing.T) {
	env := newOrderTestEnv(t)

	// 300 units at 400.00/1000 = 120.00, balance is 100.00.
	status, resp := env.place(t, map[string]any{
		"service_id": env.svcID, "link": "https://x", "quantity": 300, "user_id": env.userID,
	})
	if status != fiber.StatusBadRequest || resp.Message != "Insufficient balance" {
		t.Fatalf("expected insufficient balance, got %d %q", status, resp.Message)
	}

	balance, _ := env.led.Balance(context.Background(), env.userID)
	if balance != 100_00 {
		t.Fatalf("failed order debited balance: %d", balance)
	}
}
