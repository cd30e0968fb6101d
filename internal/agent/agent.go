// Package agent implements the single-capability planning agents the
// orchestrator fans out to. Each agent accepts one closed set of message
// types; anything outside that set is a fatal error for the whole request,
// while failures of the wrapped external call degrade to documented
// fallbacks.
package agent

import (
	"context"

	"github.com/voyago/voyago/internal/domain/message"
)

// Agent handles typed messages from its declared capability set.
type Agent interface {
	// Name identifies the agent in status lines and logs.
	Name() string

	// Capabilities returns the closed set of message types this agent accepts.
	Capabilities() []message.Type

	// Handle processes one message and returns the response envelope. A
	// message type outside the capability set returns UnsupportedTypeError.
	Handle(ctx context.Context, msg message.Message) (message.Message, error)
}

// accept returns nil when t is in caps, otherwise the fatal contract error.
func accept(name string, caps []message.Type, t message.Type) error {
	for _, c := range caps {
		if c == t {
			return nil
		}
	}
	return &message.UnsupportedTypeError{Agent: name, Type: t}
}
