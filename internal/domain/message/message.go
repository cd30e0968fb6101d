// Package message defines the typed envelope exchanged with planning agents.
package message

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Type tags one agent capability. The set is closed: every agent declares
// which types it accepts, and anything outside that set is a fatal error.
type Type string

const (
	TypeGetWeather        Type = "GET_WEATHER"
	TypeGetRoute          Type = "GET_ROUTE"
	TypeGetBudget         Type = "GET_BUDGET"
	TypeGenerateItinerary Type = "GENERATE_ITINERARY"
)

// Known reports whether t is one of the declared message types.
func (t Type) Known() bool {
	switch t {
	case TypeGetWeather, TypeGetRoute, TypeGetBudget, TypeGenerateItinerary:
		return true
	}
	return false
}

// Message is the envelope for one agent request or response. Responses echo
// the request ID so replies can be correlated across concurrent calls.
type Message struct {
	Type      Type            `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id"`
}

// New marshals payload into a Message. It panics only on unmarshalable
// payloads, which is a programming error at the call site.
func New(t Type, requestID string, payload any) Message {
	data, err := json.Marshal(payload)
	if err != nil {
		panic(fmt.Sprintf("message payload for %s: %v", t, err))
	}
	return Message{Type: t, Payload: data, RequestID: requestID}
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", m.Type, err)
	}
	return nil
}

// UnsupportedTypeError is returned when an agent receives a message type
// outside its capability set. It marks a programming error, not a transient
// fault: callers must propagate it unchanged and abort the request.
type UnsupportedTypeError struct {
	Agent string
	Type  Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("agent %s does not handle message type %s", e.Agent, e.Type)
}

// IsUnsupportedType reports whether err wraps an UnsupportedTypeError.
func IsUnsupportedType(err error) bool {
	var ute *UnsupportedTypeError
	return errors.As(err, &ute)
}
