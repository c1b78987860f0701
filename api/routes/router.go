package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roperoapp/ropero-backend/api/controllers"
	"github.com/roperoapp/ropero-backend/api/middleware"
	authsvc "github.com/roperoapp/ropero-backend/internal/auth"
	"github.com/roperoapp/ropero-backend/internal/entitlements"
	"github.com/roperoapp/ropero-backend/internal/products"
	"github.com/roperoapp/ropero-backend/internal/reviews"
	subsvc "github.com/roperoapp/ropero-backend/internal/subscriptions"
	"github.com/roperoapp/ropero-backend/pkg/config"
	"github.com/roperoapp/ropero-backend/pkg/db"
	"github.com/roperoapp/ropero-backend/pkg/logger"
	"github.com/roperoapp/ropero-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Redis         *redis.Client
	Auth          authsvc.Service
	Subscriptions subsvc.Service
	Entitlements  entitlements.Service
	Products      products.Service
	Reviews       reviews.Service
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	requireAuth := middleware.Auth(cfg.JWT, logg)

	var cachePing interface{ Ping(ctx context.Context) error }
	var rateStore interface {
		FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	}
	if params.Redis != nil {
		cachePing = params.Redis
		rateStore = params.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DB, cachePing))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, rateStore, logg)).
			Post("/register", controllers.AuthRegister(params.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).
			Post("/login", controllers.AuthLogin(params.Auth, logg))
	})

	r.Route("/api/v1/subscriptions", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", controllers.SubscriptionCreate(params.Subscriptions, logg))
		r.Get("/my-subscriptions", controllers.SubscriptionList(params.Subscriptions, logg))
		r.Get("/active", controllers.SubscriptionActive(params.Entitlements, logg))
		r.Get("/limits", controllers.SubscriptionLimits(params.Entitlements, logg))
		r.Get("/can-publish", controllers.SubscriptionCanPublish(params.Entitlements, logg))
		r.Get("/can-feature", controllers.SubscriptionCanFeature(params.Entitlements, logg))
		r.Get("/has-analytics", controllers.SubscriptionHasAnalytics(params.Entitlements, logg))
		r.Get("/{id}", controllers.SubscriptionGet(params.Subscriptions, logg))
		r.Patch("/{id}", controllers.SubscriptionUpdate(params.Subscriptions, logg))
		r.Delete("/{id}", controllers.SubscriptionCancel(params.Subscriptions, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(params.Products, logg))
		r.Get("/featured", controllers.ProductListFeatured(params.Products, logg))
		r.Get("/categories", controllers.ProductCategories(params.Products))
		r.With(requireAuth).Get("/my-products", controllers.ProductListMine(params.Products, logg))
		r.Get("/{id}", controllers.ProductGet(params.Products, logg))
		r.With(requireAuth).Post("/", controllers.ProductCreate(params.Products, logg))
		r.With(requireAuth).Patch("/{id}", controllers.ProductUpdate(params.Products, logg))
		r.With(requireAuth).Delete("/{id}", controllers.ProductRemove(params.Products, logg))
	})

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.With(requireAuth).Post("/", controllers.ReviewCreate(params.Reviews, logg))
	})

	r.Get("/api/v1/users/{id}/reviews", controllers.ReviewListBySeller(params.Reviews, logg))

	return r
}
