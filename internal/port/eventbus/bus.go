// Package eventbus defines the port for publishing planning lifecycle events
// to out-of-process consumers.
package eventbus

import "context"

// Bus is the port interface for publishing events.
type Bus interface {
	// Publish sends a message to the given subject.
	Publish(ctx context.Context, subject string, data []byte) error

	// Close shuts down the bus connection.
	Close() error

	// IsConnected reports whether the bus is currently connected.
	IsConnected() bool
}

// Subject constants for planning lifecycle events.
const (
	SubjectPlanStarted = "trips.plan.started"
	SubjectPlanStatus  = "trips.plan.status"
	SubjectPlanResult  = "trips.plan.result"
)
