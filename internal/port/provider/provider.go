// Package provider defines the ports for the upstream data sources the
// planner composes: weather, routing, candidate places and AI suggestions.
// Each implementation wraps one external service; callers treat every failure
// as transient and substitute a documented fallback.
package provider

import (
	"context"

	"github.com/voyago/voyago/internal/domain/trip"
)

// PlaceCategory selects which candidate pool a search fills.
type PlaceCategory string

const (
	CategoryAttraction PlaceCategory = "attraction"
	CategoryRestaurant PlaceCategory = "restaurant"
	CategoryHotel      PlaceCategory = "hotel"
)

// Weather looks up current conditions for a destination.
type Weather interface {
	Current(ctx context.Context, destination string) (trip.WeatherSummary, error)
}

// Route looks up a route between two named locations.
type Route interface {
	Route(ctx context.Context, origin, destination, mode string) (trip.RouteSummary, error)
}

// Places searches candidate places of one category for a destination.
// Results are ordered and may be empty; empty is not an error.
type Places interface {
	Search(ctx context.Context, destination string, category PlaceCategory, limit int) ([]trip.Place, error)
}

// PriceLookup is optionally implemented by a Places provider that can fetch
// a nightly price for a single place. Callers doing per-item lookups must
// pace them to stay under the provider's rate limit.
type PriceLookup interface {
	Price(ctx context.Context, placeID string) (float64, error)
}

// SuggestionRequest asks the generator for activities filling one time slot.
type SuggestionRequest struct {
	Destination string
	Date        string
	Slot        string // "morning", "afternoon" or "evening"
	Interests   []string
}

// Suggestions generates personalized activities for a day slot. An empty
// result is valid; callers keep their deterministic backbone on failure.
type Suggestions interface {
	Suggest(ctx context.Context, req SuggestionRequest) ([]trip.Activity, error)
}
