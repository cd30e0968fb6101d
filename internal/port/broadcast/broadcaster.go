// Package broadcast defines the port for pushing planning progress to
// connected clients. The feed is one-way and append-only: one message per
// completed orchestration step, then exactly one terminal result event.
package broadcast

import "context"

// Broadcaster sends typed progress events to all connected clients.
type Broadcaster interface {
	BroadcastEvent(ctx context.Context, eventType string, payload any)
}

// Nop discards all events. Used when no presentation layer is attached.
type Nop struct{}

// BroadcastEvent implements Broadcaster.
func (Nop) BroadcastEvent(context.Context, string, any) {}
