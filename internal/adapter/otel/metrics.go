package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "voyago"

// Metrics holds all planner metric instruments.
type Metrics struct {
	PlansStarted     metric.Int64Counter
	PlansCompleted   metric.Int64Counter
	PlansFailed      metric.Int64Counter
	ProviderFailures metric.Int64Counter
	PlanDuration     metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.PlansStarted, err = meter.Int64Counter("voyago.plans.started",
		metric.WithDescription("Number of planning runs started"))
	if err != nil {
		return nil, err
	}

	m.PlansCompleted, err = meter.Int64Counter("voyago.plans.completed",
		metric.WithDescription("Number of planning runs completed"))
	if err != nil {
		return nil, err
	}

	m.PlansFailed, err = meter.Int64Counter("voyago.plans.failed",
		metric.WithDescription("Number of planning runs failed"))
	if err != nil {
		return nil, err
	}

	m.ProviderFailures, err = meter.Int64Counter("voyago.provider.failures",
		metric.WithDescription("Number of upstream provider failures absorbed"))
	if err != nil {
		return nil, err
	}

	m.PlanDuration, err = meter.Float64Histogram("voyago.plan.duration_seconds",
		metric.WithDescription("End-to-end planning duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
