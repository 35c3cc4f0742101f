// Package router assembles the HTTP surface: health, metrics, and the
// WhatsApp webhook endpoints.
package router

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/saylanihealth/sehat-ai/internal/channels/whatsapp"
	"github.com/saylanihealth/sehat-ai/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger         *logging.Logger
	Webhook        *whatsapp.WebhookHandler
	MetricsHandler http.Handler
	DB             *sql.DB
	Redis          *redis.Client
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler(cfg))

	if cfg.Webhook != nil {
		r.Get("/webhook", cfg.Webhook.HandleVerification)
		r.Post("/webhook", cfg.Webhook.HandleInbound)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}

// healthHandler reports per-dependency status. Degraded dependencies are
// reported but do not fail the endpoint: the bot can still answer text
// conversations while, say, the directory database is down.
func healthHandler(cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"service": "ok"}

		if cfg.Redis != nil {
			if err := cfg.Redis.Ping(ctx).Err(); err != nil {
				status["redis"] = "unavailable"
			} else {
				status["redis"] = "ok"
			}
		}
		if cfg.DB != nil {
			if err := cfg.DB.PingContext(ctx); err != nil {
				status["database"] = "unavailable"
			} else {
				status["database"] = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(status); err != nil && cfg.Logger != nil {
			cfg.Logger.Error("health response encode failed", "error", err)
		}
	}
}
