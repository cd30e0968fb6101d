package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/voyago/voyago/internal/domain/trip"
)

// PlanStartedPayload is the schema for trips.plan.started messages.
type PlanStartedPayload struct {
	RequestID   string `json:"request_id"`
	Destination string `json:"destination"`
	Days        int    `json:"days"`
}

// PlanStatusPayload is the schema for trips.plan.status messages.
// Line is the human-readable "<AgentName>: <message>" progress line.
type PlanStatusPayload struct {
	RequestID string `json:"request_id"`
	Agent     string `json:"agent"`
	Line      string `json:"line"`
}

// PlanResultPayload is the schema for trips.plan.result messages.
// Exactly one result is published per request; Error is set on fatal failure.
type PlanResultPayload struct {
	RequestID string     `json:"request_id"`
	Plan      *trip.Plan `json:"plan,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Validate checks whether data is valid JSON conforming to the schema for the
// given subject. Unknown subjects pass validation.
func Validate(subject string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON on subject %s", subject)
	}

	var target any
	switch subject {
	case SubjectPlanStarted:
		target = &PlanStartedPayload{}
	case SubjectPlanStatus:
		target = &PlanStatusPayload{}
	case SubjectPlanResult:
		target = &PlanResultPayload{}
	default:
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("schema validation failed for %s: %w", subject, err)
	}
	return nil
}
