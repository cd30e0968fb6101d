package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router. wsHandler
// serves the websocket progress feed.
func MountRoutes(r chi.Router, h *Handlers, wsHandler http.HandlerFunc) {
	r.Get("/health", h.Health)
	r.Get("/ws", wsHandler)

	// Historical entry point kept for existing clients.
	r.Post("/api/plan-trip-mcp", h.PlanTrip)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/trips/plan", h.PlanTrip)
		r.Get("/trips", h.ListTrips)
		r.Get("/trips/{id}", h.GetTrip)

		r.Post("/destinations/compare", h.CompareDestinations)
		r.Get("/destinations/{name}/pools", h.GetPools)
	})
}
