package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/trainingdesk-backend/api/responses"
	"github.com/angelmondragon/trainingdesk-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
	"github.com/angelmondragon/trainingdesk-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/trainingdesk-backend/pkg/redis"
)

const readyTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TrainingDesk-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready once the optional redis dependency answers a ping.
func HealthReady(cfg *config.Config, redis pkgredis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TrainingDesk-Env", cfg.App.Env)
		checks := map[string]string{"store": "ok"}
		if redis != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			defer cancel()
			if err := redis.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
			checks["redis"] = "ok"
		} else {
			checks["redis"] = "skipped"
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
