package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/boostpanel/boostpanel/internal/account"
	"github.com/boostpanel/boostpanel/internal/activity"
	"github.com/boostpanel/boostpanel/internal/apilog"
	"github.com/boostpanel/boostpanel/internal/auth"
	"github.com/boostpanel/boostpanel/internal/catalog"
	"github.com/boostpanel/boostpanel/internal/config"
	"github.com/boostpanel/boostpanel/internal/coupon"
	"github.com/boostpanel/boostpanel/internal/gift"
	"github.com/boostpanel/boostpanel/internal/ledger"
	"github.com/boostpanel/boostpanel/internal/metrics"
	"github.com/boostpanel/boostpanel/internal/middleware"
	"github.com/boostpanel/boostpanel/internal/notification"
	"github.com/boostpanel/boostpanel/internal/order"
	"github.com/boostpanel/boostpanel/internal/recharge"
	"github.com/boostpanel/boostpanel/internal/settings"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg     config.Config
	DB      *pgxpool.Pool
	Cache   *redis.Client
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Stores: PostgreSQL in production, in-memory in dev without a database.
	var (
		engine        ledger.Engine
		accountRepo   account.Repository
		catalogRepo   catalog.Repository
		orderRepo     order.Repository
		rechargeRepo  recharge.Repository
		couponRepo    coupon.Repository
		noteStore     notification.Store
		activityStore activity.Store
		apilogStore   apilog.Store
		settingsStore settings.Store
	)
	if d.DB != nil {
		engine = ledger.NewPostgresEngine(d.DB)
		accountRepo = account.NewPostgresRepository(d.DB)
		catalogRepo = catalog.NewPostgresRepository(d.DB)
		orderRepo = order.NewPostgresRepository(d.DB)
		rechargeRepo = recharge.NewPostgresRepository(d.DB)
		couponRepo = coupon.NewPostgresRepository(d.DB)
		noteStore = notification.NewPostgresStore(d.DB)
		activityStore = activity.NewPostgresStore(d.DB)
		apilogStore = apilog.NewPostgresStore(d.DB)
		settingsStore = settings.NewPostgresStore(d.DB)
	} else {
		engine = ledger.NewInMemory()
		accountRepo = account.NewMemoryRepository()
		catalogRepo = catalog.NewMemoryRepository()
		orderRepo = order.NewMemoryRepository()
		rechargeRepo = recharge.NewMemoryRepository()
		couponRepo = coupon.NewMemoryRepository()
		noteStore = notification.NewMemoryStore()
		activityStore = activity.NewMemoryStore()
		apilogStore = apilog.NewMemoryStore()
		settingsStore = settings.NewMemoryStore()
	}
	if d.Metrics != nil {
		engine = ledger.Instrument(engine, d.Metrics.ObserveApply)
	}

	// Services.
	notifier := notification.NewService(noteStore, d.Logger)
	activities := activity.NewLog(activityStore, d.Logger)
	trail := apilog.NewTrail(apilogStore, d.Logger)
	accounts := account.NewService(accountRepo, engine)
	services := catalog.NewManager(catalogRepo)
	orders := order.NewService(orderRepo, services, accounts, engine, notifier, activities)
	recharges := recharge.NewService(rechargeRepo, engine, notifier, activities)
	coupons := coupon.NewService(couponRepo, engine, notifier, activities)
	gifts := gift.NewService(accounts, engine, notifier, activities)
	tokens := auth.NewTokens(d.Cfg.JWTSecret, d.Cfg.AccessTokenTTL)

	// Middlewares.
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger, trail, d.Metrics))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)
	RegisterMetricsRoute(app, d.Metrics)

	api := app.Group("/api/v1")

	// Public surface.
	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRatePerMin)
	RegisterAuthRoutes(api, accounts, tokens, rateLimiter)
	RegisterCatalogRoutes(api, services)
	RegisterOrderRoutes(api, orders, services, d.Metrics)

	// Authenticated user surface.
	jwtmw := middleware.JWTAuth(tokens)
	me := api.Group("/me", jwtmw)
	RegisterMeRoutes(me, accounts, orders, notifier, activities)
	RegisterRechargeRoutes(me, recharges)
	RegisterGiftRoutes(me, gifts)
	RegisterCouponRoutes(me, coupons)

	// Admin console.
	admin := api.Group("/admin", jwtmw, middleware.AdminOnly())
	RegisterAdminRoutes(admin, adminDeps{
		accounts:   accounts,
		engine:     engine,
		services:   services,
		orders:     orders,
		recharges:  recharges,
		coupons:    coupons,
		notifier:   notifier,
		activities: activities,
		trail:      trail,
		settings:   settingsStore,
	})

	return nil
}
