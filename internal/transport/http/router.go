package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"slipgate/internal/platform/middleware"
)

// HealthChecker reports backend liveness, e.g. the optional redis client.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// NewRouter wires all public endpoints with the shared middleware chain.
func NewRouter(h *Handler, logger *slog.Logger, health HealthChecker) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))

	r.Post("/v1/verify", h.handleVerify)
	r.Post("/v1/verify/image", h.handleVerifyImage)

	r.Get("/healthz", handleHealth(health))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func handleHealth(health HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			if err := health.Health(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
