package agent

import (
	"context"
	"math"

	"github.com/voyago/voyago/internal/config"
	"github.com/voyago/voyago/internal/domain/message"
	"github.com/voyago/voyago/internal/domain/trip"
)

// BudgetPayload is the request payload for GET_BUDGET. The route summary
// comes from the route agent's output; the rest comes from the trip request.
type BudgetPayload struct {
	Route     trip.RouteSummary `json:"route"`
	Tier      trip.BudgetTier   `json:"tier"`
	Days      int               `json:"days"`
	Travelers int               `json:"travelers"`
}

// Budget estimates trip cost as a pure function of route distance and tier.
// It makes no external calls and cannot degrade.
type Budget struct {
	rates config.UnitRates
}

// NewBudget creates the budget agent with the configured unit rates.
func NewBudget(rates config.UnitRates) *Budget {
	return &Budget{rates: rates}
}

func (a *Budget) Name() string { return "BudgetAgent" }

func (a *Budget) Capabilities() []message.Type {
	return []message.Type{message.TypeGetBudget}
}

func (a *Budget) Handle(_ context.Context, msg message.Message) (message.Message, error) {
	if err := accept(a.Name(), a.Capabilities(), msg.Type); err != nil {
		return message.Message{}, err
	}

	var p BudgetPayload
	if err := msg.Decode(&p); err != nil {
		return message.Message{}, err
	}
	if p.Travelers < 1 {
		p.Travelers = 1
	}
	if p.Days < 1 {
		p.Days = 1
	}

	perKm, daily := a.tierRates(p.Tier)
	transport := round2(p.Route.DistanceKm * perKm * float64(p.Travelers))
	perDay := round2(daily * float64(p.Travelers))
	total := round2(transport + perDay*float64(p.Days))

	summary := trip.BudgetSummary{
		Tier:      p.Tier,
		Currency:  a.rates.CurrencyCode,
		Transport: transport,
		PerDay:    perDay,
		Total:     total,
	}
	return message.New(message.TypeGetBudget, msg.RequestID, summary), nil
}

func (a *Budget) tierRates(tier trip.BudgetTier) (perKm, daily float64) {
	switch tier {
	case trip.BudgetLow:
		return a.rates.PerKmLow, a.rates.DailyLow
	case trip.BudgetHigh:
		return a.rates.PerKmHigh, a.rates.DailyHigh
	default:
		return a.rates.PerKmMedium, a.rates.DailyMedium
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
