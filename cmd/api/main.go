package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/roperoapp/ropero-backend/api/routes"
	"github.com/roperoapp/ropero-backend/internal/auth"
	"github.com/roperoapp/ropero-backend/internal/entitlements"
	"github.com/roperoapp/ropero-backend/internal/products"
	"github.com/roperoapp/ropero-backend/internal/reviews"
	"github.com/roperoapp/ropero-backend/internal/subscriptions"
	"github.com/roperoapp/ropero-backend/internal/users"
	"github.com/roperoapp/ropero-backend/pkg/config"
	"github.com/roperoapp/ropero-backend/pkg/db"
	"github.com/roperoapp/ropero-backend/pkg/instance"
	"github.com/roperoapp/ropero-backend/pkg/logger"
	"github.com/roperoapp/ropero-backend/pkg/migrate"
	"github.com/roperoapp/ropero-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "api"

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	userRepo := users.NewRepository(dbClient.DB())
	subscriptionRepo := subscriptions.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	reviewRepo := reviews.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		Users:    userRepo,
		JWT:      cfg.JWT,
		Password: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	subscriptionService, err := subscriptions.NewService(subscriptions.ServiceParams{
		Repo: subscriptionRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create subscription service", err)
		os.Exit(1)
	}

	entitlementService, err := entitlements.NewService(entitlements.ServiceParams{
		Subscriptions: subscriptionRepo,
		Products:      productRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create entitlement service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.ServiceParams{
		Repo:         productRepo,
		Entitlements: entitlementService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	reviewService, err := reviews.NewService(reviews.ServiceParams{
		Repo:  reviewRepo,
		Users: userRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create review service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Auth:          authService,
			Subscriptions: subscriptionService,
			Entitlements:  entitlementService,
			Products:      productService,
			Reviews:       reviewService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error during server shutdown", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server stopped")
}
