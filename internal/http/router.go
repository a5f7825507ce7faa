package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jw6ventures/icsexport/internal/api"
	"github.com/jw6ventures/icsexport/internal/config"
	"github.com/jw6ventures/icsexport/internal/http/ratelimit"
	"github.com/jw6ventures/icsexport/internal/metrics"
)

// HealthChecker reports whether the entity store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewRouter wires the health, metrics and export routes. Background work
// owned by the router stops when ctx is done.
func NewRouter(ctx context.Context, cfg *config.Config, health HealthChecker, handler *api.Handler) http.Handler {
	r := chi.NewRouter()

	exportLimiter := ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 5*time.Minute, cfg.TrustedProxies)
	go exportLimiter.Run(ctx)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := health.HealthCheck(ctx); err != nil {
			http.Error(w, "unready", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.PrometheusEnabled {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			metrics.Handler().ServeHTTP(w, r)
		})
	}

	// Export routes are unauthenticated; the limiter is the only guard.
	r.Route("/api", func(r chi.Router) {
		r.Use(exportLimiter.Middleware())
		r.Get("/calendars/{entity_id}/export.ics", handler.CalendarExport)
		r.Get("/todo/{entity_id}/export.ics", handler.TodoExport)
		r.Get("/todo/{entity_id}/export_events.ics", handler.TodoEventsExport)
	})

	return r
}
