package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/voyago/voyago/internal/domain/message"
	"github.com/voyago/voyago/internal/domain/trip"
	"github.com/voyago/voyago/internal/port/provider"
)

// RoutePayload is the request payload for GET_ROUTE.
type RoutePayload struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Mode        string `json:"mode"`
}

// Route wraps the routing provider. A nil provider or any lookup failure
// yields a flat distance estimate instead of an error.
type Route struct {
	provider   provider.Route
	fallbackKm float64
	log        *slog.Logger
}

// NewRoute creates the route agent. fallbackKm is the distance assumed when
// the provider is unavailable.
func NewRoute(p provider.Route, fallbackKm float64, log *slog.Logger) *Route {
	return &Route{provider: p, fallbackKm: fallbackKm, log: log}
}

func (a *Route) Name() string { return "RouteAgent" }

func (a *Route) Capabilities() []message.Type {
	return []message.Type{message.TypeGetRoute}
}

func (a *Route) Handle(ctx context.Context, msg message.Message) (message.Message, error) {
	if err := accept(a.Name(), a.Capabilities(), msg.Type); err != nil {
		return message.Message{}, err
	}

	var p RoutePayload
	if err := msg.Decode(&p); err != nil {
		return message.Message{}, err
	}
	if p.Mode == "" {
		p.Mode = "driving"
	}

	summary := a.fallbackRoute(p.Mode)
	if a.provider != nil {
		got, err := a.provider.Route(ctx, p.Origin, p.Destination, p.Mode)
		if err != nil {
			a.log.Warn("route lookup failed, using fallback",
				"origin", p.Origin, "destination", p.Destination, "error", err)
		} else {
			summary = got
		}
	}

	return message.New(message.TypeGetRoute, msg.RequestID, summary), nil
}

// fallbackRoute assumes the configured distance at highway speed.
func (a *Route) fallbackRoute(mode string) trip.RouteSummary {
	hours := a.fallbackKm / 80
	h := int(hours)
	m := int((hours - float64(h)) * 60)
	return trip.RouteSummary{
		DistanceKm: a.fallbackKm,
		Duration:   fmt.Sprintf("%dh %dm", h, m),
		Mode:       mode,
		Fallback:   true,
	}
}
