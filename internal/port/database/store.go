// Package database defines the port for the optional plan archive.
package database

import (
	"context"

	"github.com/voyago/voyago/internal/domain/trip"
)

// Store persists completed trip plans and reads them back.
type Store interface {
	// SavePlan stores a completed plan keyed by its request ID.
	SavePlan(ctx context.Context, p *trip.Plan) error

	// GetPlan loads one plan by request ID. Returns domain.ErrNotFound
	// when no such plan exists.
	GetPlan(ctx context.Context, requestID string) (*trip.Plan, error)

	// ListPlans returns the most recent plans, newest first.
	ListPlans(ctx context.Context, limit int) ([]trip.Plan, error)
}
