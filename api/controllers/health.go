package controllers

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/multierr"

	"github.com/tuanleanh/shopline-backend/api/responses"
	"github.com/tuanleanh/shopline-backend/pkg/config"
	pkgerrors "github.com/tuanleanh/shopline-backend/pkg/errors"
	"github.com/tuanleanh/shopline-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Shopline-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies every dependency answers before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, db pinger, cache pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Shopline-Env", cfg.App.Env)

		var errs error
		if db == nil {
			errs = multierr.Append(errs, fmt.Errorf("database not wired"))
		} else if err := db.Ping(r.Context()); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("database: %w", err))
		}
		if cache == nil {
			errs = multierr.Append(errs, fmt.Errorf("redis not wired"))
		} else if err := cache.Ping(r.Context()); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("redis: %w", err))
		}

		if errs != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "dependencies unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
