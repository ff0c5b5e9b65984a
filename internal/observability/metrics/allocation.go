package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	allocationMeterName = "allocation.service"
)

type AllocationMetrics struct {
	runs                  metric.Int64Counter
	policyDuration        metric.Float64Histogram
	displacementDecisions metric.Int64Counter
	reroutedFlights       metric.Int64Counter
	solveDuration         metric.Float64Histogram
	cacheLookups          metric.Int64Counter
}

func NewAllocationMetrics() (*AllocationMetrics, error) {
	meter := otel.Meter(allocationMeterName)

	runs, err := meter.Int64Counter(
		"allocation_policy_runs_total",
		metric.WithDescription("Total number of policy runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	policyDuration, err := meter.Float64Histogram(
		"allocation_policy_duration_seconds",
		metric.WithDescription("Time spent running one allocation policy"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60,
		),
	)
	if err != nil {
		return nil, err
	}

	displacementDecisions, err := meter.Int64Counter(
		"allocation_displacement_decisions_total",
		metric.WithDescription("Substitution decisions by outcome"),
		metric.WithUnit("{flight}"),
	)
	if err != nil {
		return nil, err
	}

	reroutedFlights, err := meter.Int64Counter(
		"allocation_rerouted_flights_total",
		metric.WithDescription("Flights left without a slot"),
		metric.WithUnit("{flight}"),
	)
	if err != nil {
		return nil, err
	}

	solveDuration, err := meter.Float64Histogram(
		"allocation_optimizer_solve_duration_seconds",
		metric.WithDescription("Time spent in the assignment optimizer"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1,
		),
	)
	if err != nil {
		return nil, err
	}

	cacheLookups, err := meter.Int64Counter(
		"allocation_solve_cache_lookups_total",
		metric.WithDescription("Solve cache lookups by result"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	return &AllocationMetrics{
		runs:                  runs,
		policyDuration:        policyDuration,
		displacementDecisions: displacementDecisions,
		reroutedFlights:       reroutedFlights,
		solveDuration:         solveDuration,
		cacheLookups:          cacheLookups,
	}, nil
}

// All methods are safe on a nil receiver so callers can run without metrics.

func (m *AllocationMetrics) RecordRun(ctx context.Context, policy, status string) {
	if m == nil {
		return
	}
	m.runs.Add(ctx, 1, metric.WithAttributes(
		attribute.String("policy", policy),
		attribute.String("status", status),
	))
}

func (m *AllocationMetrics) RecordPolicyDuration(ctx context.Context, policy string, duration time.Duration) {
	if m == nil {
		return
	}
	m.policyDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("policy", policy),
	))
}

func (m *AllocationMetrics) RecordDisplacementDecision(ctx context.Context, decision string) {
	if m == nil {
		return
	}
	m.displacementDecisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("decision", decision),
	))
}

func (m *AllocationMetrics) RecordRerouted(ctx context.Context, policy string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.reroutedFlights.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("policy", policy),
	))
}

func (m *AllocationMetrics) RecordSolveDuration(ctx context.Context, weighted bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.solveDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.Bool("weighted", weighted),
	))
}

func (m *AllocationMetrics) RecordCacheLookup(ctx context.Context, backend string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("result", result),
	))
}
