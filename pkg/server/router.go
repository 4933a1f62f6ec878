package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/null-create/toolwatch/pkg/auth"
)

// NewRouter wires the watch API. Read endpoints are open; mutating
// endpoints sit behind JWT bearer auth when requireAuth is set.
func NewRouter(h *Handler, requireAuth bool) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check
	r.Get("/health", h.HealthCheckHandler)

	// Read-only surface
	r.Post("/fingerprint", h.FingerprintHandler)
	r.Get("/baselines", h.ListBaselinesHandler)
	r.Get("/baselines/{tool}", h.GetBaselineHandler)
	r.Get("/alerts", h.ListAlertsHandler)

	// Mutating surface
	r.Group(func(r chi.Router) {
		if requireAuth {
			r.Use(auth.Middleware)
		}
		r.Post("/check", h.CheckHandler)
		r.Post("/baselines", h.AddBaselineHandler)
	})

	return r
}
