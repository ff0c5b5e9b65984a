package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const allocationTracerName = "github.com/KasumiMercury/primind-slot-allocation/internal/service/allocation"

func AllocationTracer() trace.Tracer {
	return otel.Tracer(allocationTracerName)
}

func StartRunSpan(ctx context.Context, runID string, trial, slotCount, flightCount int) (context.Context, trace.Span) {
	return AllocationTracer().Start(ctx, "allocation.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.trial", trial),
			attribute.Int("instance.slot_count", slotCount),
			attribute.Int("instance.flight_count", flightCount),
		),
	)
}

func StartPolicySpan(ctx context.Context, policy string) (context.Context, trace.Span) {
	return AllocationTracer().Start(ctx, "allocation.policy",
		trace.WithAttributes(
			attribute.String("policy", policy),
		),
	)
}

func StartSolveSpan(ctx context.Context, slotCount, flightCount int, weighted bool) (context.Context, trace.Span) {
	return AllocationTracer().Start(ctx, "allocation.optimizer.solve",
		trace.WithAttributes(
			attribute.Int("solve.slot_count", slotCount),
			attribute.Int("solve.flight_count", flightCount),
			attribute.Bool("solve.weighted", weighted),
		),
	)
}

func StartSwapPassSpan(ctx context.Context, airlineCount int) (context.Context, trace.Span) {
	return AllocationTracer().Start(ctx, "allocation.swap_pass",
		trace.WithAttributes(
			attribute.Int("swap.airline_count", airlineCount),
		),
	)
}

func StartCacheOperationSpan(ctx context.Context, backend, operation, key string) (context.Context, trace.Span) {
	return AllocationTracer().Start(ctx, "allocation.solve_cache."+operation,
		trace.WithAttributes(
			attribute.String("cache.backend", backend),
			attribute.String("cache.operation", operation),
			attribute.String("cache.key", key),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordPolicyResult(span trace.Span, assignedCount, reroutedCount int, err error) {
	span.SetAttributes(
		attribute.Int("policy.assigned_count", assignedCount),
		attribute.Int("policy.rerouted_count", reroutedCount),
	)
	RecordError(span, err)
}

func RecordSolveResult(span trace.Span, objective float64, err error) {
	if err == nil {
		span.SetAttributes(attribute.Float64("solve.objective_seconds", objective))
	}
	RecordError(span, err)
}

func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
