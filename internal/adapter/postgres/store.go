package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voyago/voyago/internal/domain"
	"github.com/voyago/voyago/internal/domain/trip"
)

// Store implements database.Store using PostgreSQL. The full plan document
// lives in a JSONB column; the scalar columns exist only for listing and
// lookup.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// SavePlan stores a completed plan keyed by its request ID. Replanning with
// the same request ID overwrites the previous document.
func (s *Store) SavePlan(ctx context.Context, p *trip.Plan) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO trip_plans (request_id, destination, start_date, days, plan, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (request_id) DO UPDATE SET plan = EXCLUDED.plan, created_at = EXCLUDED.created_at`,
		p.RequestID, p.Destination, p.StartDate, p.Days, doc, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("save plan %s: %w", p.RequestID, err)
	}
	return nil
}

// GetPlan loads one plan by request ID.
func (s *Store) GetPlan(ctx context.Context, requestID string) (*trip.Plan, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT plan FROM trip_plans WHERE request_id = $1`, requestID).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get plan %s: %w", requestID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get plan %s: %w", requestID, err)
	}

	var p trip.Plan
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("unmarshal plan %s: %w", requestID, err)
	}
	return &p, nil
}

// ListPlans returns the most recent plans, newest first.
func (s *Store) ListPlans(ctx context.Context, limit int) ([]trip.Plan, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT plan FROM trip_plans ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []trip.Plan
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		var p trip.Plan
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("unmarshal plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
