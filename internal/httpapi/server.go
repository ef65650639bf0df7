// Package httpapi serves the observability endpoints: health, status and
// Prometheus metrics. Classification itself is not exposed here; callers use
// the classifier package (or the CLI) directly.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"nertag/pkg/types"
)

// Service defines the methods required by the HTTP layer.
type Service interface {
	Status() types.StatusResponse
	Ready() bool
}

// zlog is the structured logger for the HTTP layer. Defaults to a no-op.
var zlog = zerolog.Nop()

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = l }

// NewMux builds the router: /healthz, /readyz, /status, /metrics.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !svc.Ready() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
			zlog.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("encode status")
		}
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
