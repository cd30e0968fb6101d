// Package trip defines the trip-planning domain entities.
package trip

import (
	"fmt"
	"time"

	"github.com/voyago/voyago/internal/domain"
)

// DateLayout is the wire format for all trip dates.
const DateLayout = "2006-01-02"

// BudgetTier classifies how much a traveler wants to spend.
type BudgetTier string

const (
	BudgetLow    BudgetTier = "low"
	BudgetMedium BudgetTier = "medium"
	BudgetHigh   BudgetTier = "high"
)

// Valid reports whether the tier is one of the known values.
func (t BudgetTier) Valid() bool {
	switch t {
	case BudgetLow, BudgetMedium, BudgetHigh:
		return true
	}
	return false
}

// Request is the input to a planning run.
type Request struct {
	Destination string     `json:"destination"`
	Origin      string     `json:"origin,omitempty"`
	StartDate   string     `json:"start_date"`
	Days        int        `json:"days"`
	Interests   []string   `json:"interests,omitempty"`
	Budget      BudgetTier `json:"budget,omitempty"`
	Travelers   int        `json:"travelers,omitempty"`
}

// Validate checks required fields and normalizes defaults in place.
// Travelers defaults to 1 and budget to medium when unset.
func (r *Request) Validate() error {
	if r.Destination == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if r.Days < 1 {
		return fmt.Errorf("%w: days must be at least 1", domain.ErrValidation)
	}
	if r.StartDate == "" {
		return fmt.Errorf("%w: start_date is required", domain.ErrValidation)
	}
	if _, err := time.Parse(DateLayout, r.StartDate); err != nil {
		return fmt.Errorf("%w: start_date must be YYYY-MM-DD", domain.ErrValidation)
	}
	if r.Travelers == 0 {
		r.Travelers = 1
	}
	if r.Travelers < 0 {
		return fmt.Errorf("%w: travelers must be positive", domain.ErrValidation)
	}
	if r.Budget == "" {
		r.Budget = BudgetMedium
	}
	if !r.Budget.Valid() {
		return fmt.Errorf("%w: budget must be low, medium or high", domain.ErrValidation)
	}
	return nil
}

// Start returns the parsed start date. Validate must have succeeded first.
func (r *Request) Start() time.Time {
	t, _ := time.Parse(DateLayout, r.StartDate)
	return t
}

// Place is one candidate attraction, restaurant or hotel.
type Place struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Tags        []string `json:"tags,omitempty"`
	Price       float64  `json:"price,omitempty"`
}

// Pools holds the candidate places fetched once per planning request.
// Each list is ordered and deduplicated by place ID; any of them may be empty.
type Pools struct {
	Attractions []Place `json:"attractions"`
	Restaurants []Place `json:"restaurants"`
	Hotels      []Place `json:"hotels"`
}

// ActivityType classifies a scheduled activity.
type ActivityType string

const (
	ActivitySightseeing   ActivityType = "sightseeing"
	ActivityMeal          ActivityType = "meal"
	ActivityHotel         ActivityType = "hotel"
	ActivityGeneric       ActivityType = "activity"
	ActivityEntertainment ActivityType = "entertainment"
)

// Activity is one scheduled or suggested item on a day plan.
type Activity struct {
	Time     string       `json:"time"`
	Title    string       `json:"title"`
	Type     ActivityType `json:"type"`
	Location string       `json:"location,omitempty"`
	Notes    string       `json:"notes,omitempty"`
	Duration string       `json:"duration,omitempty"`
	Price    float64      `json:"price,omitempty"`
	Status   string       `json:"status,omitempty"`
}

// DayPlan is one fully scheduled day of the itinerary.
// Day is 1-based and contiguous; Date is start + Day - 1 days.
type DayPlan struct {
	Day         int        `json:"day"`
	Date        string     `json:"date"`
	Title       string     `json:"title"`
	Activities  []Activity `json:"activities"`
	Suggestions []Activity `json:"suggestions,omitempty"`
}

// WeatherSummary is the weather snapshot attached to a plan.
type WeatherSummary struct {
	TempC       float64 `json:"temp_c"`
	Description string  `json:"description"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Fallback    bool    `json:"fallback,omitempty"`
}

// RouteSummary is the origin-to-destination route attached to a plan.
type RouteSummary struct {
	DistanceKm float64  `json:"distance_km"`
	Duration   string   `json:"duration"`
	Mode       string   `json:"mode"`
	Steps      []string `json:"steps,omitempty"`
	Fallback   bool     `json:"fallback,omitempty"`
}

// BudgetSummary is the cost estimate attached to a plan.
type BudgetSummary struct {
	Tier      BudgetTier `json:"tier"`
	Currency  string     `json:"currency"`
	Transport float64    `json:"transport"`
	PerDay    float64    `json:"per_day"`
	Total     float64    `json:"total"`
}

// Plan is the composed result of one planning run. It is created fresh per
// request and never mutated after the orchestrator returns it.
type Plan struct {
	RequestID   string         `json:"request_id"`
	Destination string         `json:"destination"`
	StartDate   string         `json:"start_date"`
	Days        int            `json:"days"`
	Weather     WeatherSummary `json:"weather"`
	Route       RouteSummary   `json:"route"`
	Budget      BudgetSummary  `json:"budget"`
	DayPlans    []DayPlan      `json:"day_plans"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NewPlan assembles a Plan from the orchestration outputs. Using an explicit
// constructor keeps every required field visible at the merge site.
func NewPlan(requestID string, req Request, weather WeatherSummary, route RouteSummary, budget BudgetSummary, days []DayPlan) *Plan {
	return &Plan{
		RequestID:   requestID,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		Days:        req.Days,
		Weather:     weather,
		Route:       route,
		Budget:      budget,
		DayPlans:    days,
		CreatedAt:   time.Now().UTC(),
	}
}
