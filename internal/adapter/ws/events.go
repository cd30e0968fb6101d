package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/voyago/voyago/internal/domain/trip"
)

// Event type constants for the progress feed. A planning run emits exactly
// one plan_started, zero or more status_update lines and one trip_result.
const (
	EventPlanStarted  = "plan_started"
	EventStatusUpdate = "status_update"
	EventTripResult   = "trip_result"
)

// PlanStartedEvent acknowledges that a planning run was accepted.
type PlanStartedEvent struct {
	RequestID   string `json:"request_id"`
	Destination string `json:"destination"`
	Days        int    `json:"days"`
}

// StatusUpdateEvent carries one free-text progress line of the form
// "<AgentName>: <message>".
type StatusUpdateEvent struct {
	RequestID string `json:"request_id"`
	Line      string `json:"line"`
}

// TripResultEvent is the terminal event of a run: the full plan, or an
// error message when the run failed fatally.
type TripResultEvent struct {
	RequestID string     `json:"request_id"`
	Plan      *trip.Plan `json:"plan,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// BroadcastEvent marshals a typed event and broadcasts it to all clients.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	h.Broadcast(ctx, Message{
		Type:    eventType,
		Payload: json.RawMessage(data),
	})
}
