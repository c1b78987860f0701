package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/roperoapp/ropero-backend/api/responses"
	"github.com/roperoapp/ropero-backend/pkg/config"
	pkgerrors "github.com/roperoapp/ropero-backend/pkg/errors"
	"github.com/roperoapp/ropero-backend/pkg/logger"
)

const readyCheckTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Ropero-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, db, cache pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Ropero-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		checks["database"] = checkDependency(ctx, db)
		checks["redis"] = checkDependency(ctx, cache)
		for _, status := range checks {
			if status != "ok" && status != "skipped" {
				healthy = false
			}
		}

		if !healthy {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

func checkDependency(ctx context.Context, p pinger) string {
	if p == nil {
		return "skipped"
	}
	if err := p.Ping(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}
