package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voyago/voyago/internal/adapter/postgres"
	"github.com/voyago/voyago/internal/domain"
	"github.com/voyago/voyago/internal/domain/trip"
)

// setupStore creates a pgxpool connection, runs all migrations, and returns a
// ready-to-use Store. The pool is closed via t.Cleanup.
func setupStore(t *testing.T) *postgres.Store {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("requires DATABASE_URL")
	}

	ctx := context.Background()

	if err := postgres.RunMigrations(ctx, dsn); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return postgres.NewStore(pool)
}

func testPlan(requestID string) *trip.Plan {
	return &trip.Plan{
		RequestID:   requestID,
		Destination: "Lisbon",
		StartDate:   "2026-09-12",
		Days:        3,
		Weather:     trip.WeatherSummary{TempC: 24, Description: "clear sky"},
		Route:       trip.RouteSummary{DistanceKm: 1730, Mode: "driving"},
		Budget:      trip.BudgetSummary{Tier: trip.BudgetMedium, Currency: "USD", Total: 900},
		DayPlans: []trip.DayPlan{
			{Day: 1, Date: "2026-09-12", Title: "Day 1: Arrival & Exploration"},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestStore_SaveAndGetPlan(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	want := testPlan("req-" + uuid.NewString())
	if err := store.SavePlan(ctx, want); err != nil {
		t.Fatalf("SavePlan: %v", err)
	}

	got, err := store.GetPlan(ctx, want.RequestID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if got.Destination != want.Destination {
		t.Errorf("destination = %q, want %q", got.Destination, want.Destination)
	}
	if got.Days != want.Days {
		t.Errorf("days = %d, want %d", got.Days, want.Days)
	}
	if len(got.DayPlans) != 1 || got.DayPlans[0].Title != want.DayPlans[0].Title {
		t.Errorf("day plans round-trip mismatch: %+v", got.DayPlans)
	}
}

func TestStore_SavePlanOverwrites(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	p := testPlan("req-" + uuid.NewString())
	if err := store.SavePlan(ctx, p); err != nil {
		t.Fatalf("SavePlan: %v", err)
	}

	p.Destination = "Porto"
	if err := store.SavePlan(ctx, p); err != nil {
		t.Fatalf("SavePlan overwrite: %v", err)
	}

	got, err := store.GetPlan(ctx, p.RequestID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if got.Destination != "Porto" {
		t.Errorf("destination = %q, want %q", got.Destination, "Porto")
	}
}

func TestStore_GetPlanNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.GetPlan(context.Background(), "req-missing-"+uuid.NewString())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStore_ListPlans(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for range 3 {
		if err := store.SavePlan(ctx, testPlan("req-"+uuid.NewString())); err != nil {
			t.Fatalf("SavePlan: %v", err)
		}
	}

	plans, err := store.ListPlans(ctx, 2)
	if err != nil {
		t.Fatalf("ListPlans: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("len(plans) = %d, want 2", len(plans))
	}
}
