package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	votel "github.com/voyago/voyago/internal/adapter/otel"
	"github.com/voyago/voyago/internal/adapter/ws"
	"github.com/voyago/voyago/internal/agent"
	"github.com/voyago/voyago/internal/domain/message"
	"github.com/voyago/voyago/internal/domain/trip"
	"github.com/voyago/voyago/internal/port/broadcast"
	"github.com/voyago/voyago/internal/port/database"
	"github.com/voyago/voyago/internal/port/eventbus"
)

// Orchestrator sequences the planning agents and merges their outputs into
// one TripPlan. One request ID correlates every message and status line of a
// run. Provider degradation inside an agent never fails a run; only the
// fatal agent-contract error does.
type Orchestrator struct {
	weather agent.Agent
	route   agent.Agent
	budget  agent.Agent
	draft   agent.Agent

	broadcaster broadcast.Broadcaster
	bus         eventbus.Bus
	store       database.Store
	log         *slog.Logger
	metrics     *votel.Metrics

	// newID generates one request ID per run, injectable for reproducible
	// orchestration traces in tests.
	newID func() string
}

// NewOrchestrator wires the four agents. bus and store may be nil.
func NewOrchestrator(weather, route, budget, draft agent.Agent, broadcaster broadcast.Broadcaster, bus eventbus.Bus, store database.Store, log *slog.Logger) *Orchestrator {
	if broadcaster == nil {
		broadcaster = broadcast.Nop{}
	}
	return &Orchestrator{
		weather:     weather,
		route:       route,
		budget:      budget,
		draft:       draft,
		broadcaster: broadcaster,
		bus:         bus,
		store:       store,
		log:         log,
		newID:       uuid.NewString,
	}
}

// SetIDSource overrides the request-ID generator.
func (o *Orchestrator) SetIDSource(newID func() string) {
	o.newID = newID
}

// SetMetrics attaches metric instruments. Nil metrics are skipped.
func (o *Orchestrator) SetMetrics(m *votel.Metrics) {
	o.metrics = m
}

// PlanTrip runs one full orchestration. Weather and route resolve
// concurrently with all-settle semantics, budget follows the route, and the
// draft agent consumes the merged context.
func (o *Orchestrator) PlanTrip(ctx context.Context, req trip.Request) (*trip.Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	requestID := o.newID()
	ctx, span := votel.StartPlanSpan(ctx, requestID, req.Destination, req.Days)
	defer span.End()
	started := time.Now()
	if o.metrics != nil {
		o.metrics.PlansStarted.Add(ctx, 1)
	}

	log := o.log.With("request_id", requestID, "destination", req.Destination)
	log.Info("planning trip", "days", req.Days)

	o.broadcaster.BroadcastEvent(ctx, ws.EventPlanStarted, ws.PlanStartedEvent{
		RequestID:   requestID,
		Destination: req.Destination,
		Days:        req.Days,
	})
	o.publish(ctx, eventbus.SubjectPlanStarted, eventbus.PlanStartedPayload{
		RequestID:   requestID,
		Destination: req.Destination,
		Days:        req.Days,
	})

	origin := req.Origin
	if origin == "" {
		origin = "current-location"
	}

	// Weather and route are independent; fan out and settle both before
	// looking at either result so one branch can never poison the other.
	var (
		wg                   sync.WaitGroup
		weatherMsg, routeMsg message.Message
		weatherErr, routeErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		actx, span := votel.StartAgentSpan(ctx, o.weather.Name(), string(message.TypeGetWeather))
		defer span.End()
		weatherMsg, weatherErr = o.weather.Handle(actx,
			message.New(message.TypeGetWeather, requestID, agent.WeatherPayload{Destination: req.Destination}))
	}()
	go func() {
		defer wg.Done()
		actx, span := votel.StartAgentSpan(ctx, o.route.Name(), string(message.TypeGetRoute))
		defer span.End()
		routeMsg, routeErr = o.route.Handle(actx,
			message.New(message.TypeGetRoute, requestID, agent.RoutePayload{
				Origin:      origin,
				Destination: req.Destination,
				Mode:        "driving",
			}))
	}()
	wg.Wait()

	var weather trip.WeatherSummary
	if err := o.settle(ctx, requestID, o.weather.Name(), weatherMsg, weatherErr, &weather); err != nil {
		return o.fail(ctx, requestID, err)
	}
	o.status(ctx, requestID, o.weather.Name(),
		fmt.Sprintf("%.1f°C, %s", weather.TempC, weather.Description))

	var route trip.RouteSummary
	if err := o.settle(ctx, requestID, o.route.Name(), routeMsg, routeErr, &route); err != nil {
		return o.fail(ctx, requestID, err)
	}
	o.status(ctx, requestID, o.route.Name(),
		fmt.Sprintf("%.0f km, %s by %s", route.DistanceKm, route.Duration, route.Mode))

	budgetMsg, budgetErr := o.budget.Handle(ctx,
		message.New(message.TypeGetBudget, requestID, agent.BudgetPayload{
			Route:     route,
			Tier:      req.Budget,
			Days:      req.Days,
			Travelers: req.Travelers,
		}))
	var budget trip.BudgetSummary
	if err := o.settle(ctx, requestID, o.budget.Name(), budgetMsg, budgetErr, &budget); err != nil {
		return o.fail(ctx, requestID, err)
	}
	o.status(ctx, requestID, o.budget.Name(),
		fmt.Sprintf("estimated %.0f %s for %d days", budget.Total, budget.Currency, req.Days))

	draftMsg, draftErr := o.draft.Handle(ctx,
		message.New(message.TypeGenerateItinerary, requestID, agent.DraftPayload{
			Request: req,
			Weather: weather,
			Route:   route,
			Budget:  budget,
		}))
	var draft agent.DraftResult
	if err := o.settle(ctx, requestID, o.draft.Name(), draftMsg, draftErr, &draft); err != nil {
		return o.fail(ctx, requestID, err)
	}
	o.status(ctx, requestID, o.draft.Name(),
		fmt.Sprintf("%d days scheduled", len(draft.Days)))

	plan := trip.NewPlan(requestID, req, weather, route, budget, draft.Days)

	if o.store != nil {
		if err := o.store.SavePlan(ctx, plan); err != nil {
			log.Warn("plan archive write failed", "error", err)
		}
	}

	o.broadcaster.BroadcastEvent(ctx, ws.EventTripResult, ws.TripResultEvent{
		RequestID: requestID,
		Plan:      plan,
	})
	o.publish(ctx, eventbus.SubjectPlanResult, eventbus.PlanResultPayload{
		RequestID: requestID,
		Plan:      plan,
	})

	if o.metrics != nil {
		o.metrics.PlansCompleted.Add(ctx, 1)
		o.metrics.PlanDuration.Record(ctx, time.Since(started).Seconds())
	}
	log.Info("trip planned", "days", len(plan.DayPlans), "total", plan.Budget.Total)
	return plan, nil
}

// settle checks one agent step and decodes its payload. Any agent error is
// fatal at this level: transient provider failures were already absorbed
// inside the agent.
func (o *Orchestrator) settle(_ context.Context, requestID, name string, msg message.Message, err error, out any) error {
	if err != nil {
		return fmt.Errorf("agent %s: %w", name, err)
	}
	if msg.RequestID != requestID {
		return fmt.Errorf("agent %s: response for request %s, want %s", name, msg.RequestID, requestID)
	}
	if err := msg.Decode(out); err != nil {
		return fmt.Errorf("agent %s: %w", name, err)
	}
	return nil
}

// status emits one progress line "<AgentName>: <summary>".
func (o *Orchestrator) status(ctx context.Context, requestID, agentName, summary string) {
	line := agentName + ": " + summary
	o.broadcaster.BroadcastEvent(ctx, ws.EventStatusUpdate, ws.StatusUpdateEvent{
		RequestID: requestID,
		Line:      line,
	})
	o.publish(ctx, eventbus.SubjectPlanStatus, eventbus.PlanStatusPayload{
		RequestID: requestID,
		Agent:     agentName,
		Line:      line,
	})
}

// fail emits the terminal error event and aborts the run. No partial plan
// is ever returned.
func (o *Orchestrator) fail(ctx context.Context, requestID string, err error) (*trip.Plan, error) {
	if o.metrics != nil {
		o.metrics.PlansFailed.Add(ctx, 1)
	}
	o.log.Error("trip planning failed", "request_id", requestID, "error", err)
	o.broadcaster.BroadcastEvent(ctx, ws.EventTripResult, ws.TripResultEvent{
		RequestID: requestID,
		Error:     err.Error(),
	})
	o.publish(ctx, eventbus.SubjectPlanResult, eventbus.PlanResultPayload{
		RequestID: requestID,
		Error:     err.Error(),
	})
	return nil, err
}

// publish mirrors an event onto the bus when one is attached.
func (o *Orchestrator) publish(ctx context.Context, subject string, payload any) {
	if o.bus == nil || !o.bus.IsConnected() {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		o.log.Error("marshal bus payload", "subject", subject, "error", err)
		return
	}
	if err := o.bus.Publish(ctx, subject, data); err != nil {
		o.log.Warn("bus publish failed", "subject", subject, "error", err)
	}
}
