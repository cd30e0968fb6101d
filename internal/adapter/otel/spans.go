package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "voyago"

// StartPlanSpan starts a span for a full planning run.
func StartPlanSpan(ctx context.Context, requestID, destination string, days int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "plan",
		trace.WithAttributes(
			attribute.String("plan.request_id", requestID),
			attribute.String("plan.destination", destination),
			attribute.Int("plan.days", days),
		),
	)
}

// StartAgentSpan starts a span for one agent invocation within a run.
func StartAgentSpan(ctx context.Context, agent, messageType string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "agent",
		trace.WithAttributes(
			attribute.String("agent.name", agent),
			attribute.String("agent.message_type", messageType),
		),
	)
}

// StartCompareSpan starts a span for a destination comparison.
func StartCompareSpan(ctx context.Context, a, b string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "compare",
		trace.WithAttributes(
			attribute.String("compare.a", a),
			attribute.String("compare.b", b),
		),
	)
}
