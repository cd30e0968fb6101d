package agent

import (
	"context"
	"log/slog"

	"github.com/voyago/voyago/internal/domain/message"
	"github.com/voyago/voyago/internal/domain/trip"
)

// PoolSource fetches the candidate pools for a destination.
type PoolSource interface {
	Pools(ctx context.Context, destination string) (trip.Pools, error)
}

// Assembler turns a request plus candidate pools into scheduled day plans.
type Assembler interface {
	Assemble(ctx context.Context, req trip.Request, pools trip.Pools) []trip.DayPlan
}

// DraftPayload is the request payload for GENERATE_ITINERARY: the original
// request merged with the settled outputs of the other agents.
type DraftPayload struct {
	Request trip.Request        `json:"request"`
	Weather trip.WeatherSummary `json:"weather"`
	Route   trip.RouteSummary   `json:"route"`
	Budget  trip.BudgetSummary  `json:"budget"`
}

// DraftResult is the response payload for GENERATE_ITINERARY.
type DraftResult struct {
	Days []trip.DayPlan `json:"days"`
}

// Draft produces the day-by-day itinerary. Pool fetch failure degrades to
// empty pools, which the assembler fills with synthetic placeholders.
type Draft struct {
	pools     PoolSource
	assembler Assembler
	log       *slog.Logger
}

// NewDraft creates the itinerary draft agent.
func NewDraft(pools PoolSource, assembler Assembler, log *slog.Logger) *Draft {
	return &Draft{pools: pools, assembler: assembler, log: log}
}

func (a *Draft) Name() string { return "ItineraryDraftAgent" }

func (a *Draft) Capabilities() []message.Type {
	return []message.Type{message.TypeGenerateItinerary}
}

func (a *Draft) Handle(ctx context.Context, msg message.Message) (message.Message, error) {
	if err := accept(a.Name(), a.Capabilities(), msg.Type); err != nil {
		return message.Message{}, err
	}

	var p DraftPayload
	if err := msg.Decode(&p); err != nil {
		return message.Message{}, err
	}

	pools, err := a.pools.Pools(ctx, p.Request.Destination)
	if err != nil {
		a.log.Warn("pool fetch failed, assembling from placeholders",
			"destination", p.Request.Destination, "error", err)
		pools = trip.Pools{}
	}

	days := a.assembler.Assemble(ctx, p.Request, pools)
	return message.New(message.TypeGenerateItinerary, msg.RequestID, DraftResult{Days: days}), nil
}
