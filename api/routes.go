package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(h.logger))
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Post("/sessions", h.CreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Delete("/", h.DeleteSession)
			r.Get("/search", h.Search)

			r.Get("/selection", h.GetSelection)
			r.Post("/selection", h.Activate)
			r.Put("/selection", h.ReplaceSelection)
			r.Delete("/selection", h.ClearSelection)
			r.Delete("/selection/{name}", h.Deactivate)

			r.Post("/presets/{preset}", h.ApplyPreset)
			r.Get("/export", h.Export)
		})
	})

	return r
}
