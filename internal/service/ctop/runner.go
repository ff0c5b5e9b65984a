package ctop

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
	"github.com/KasumiMercury/primind-slot-allocation/internal/observability/metrics"
	"github.com/KasumiMercury/primind-slot-allocation/internal/service/cost"
	"github.com/KasumiMercury/primind-slot-allocation/internal/service/rbs"
)

const (
	decisionDisplaced = "displaced"
	decisionKept      = "kept"
	decisionBlocked   = "blocked"
)

// Runner is the substitution engine. Starting from the RBS allocation it
// visits every flight once, earliest current slot first, and reroutes the
// flight when the cost strategy prices the displacement at or below zero.
// With airline cheats enabled the airline's own strategy can veto the move.
type Runner struct {
	costMethod        cost.Strategy
	filler            cost.Filler
	airlineCheats     bool
	airlineCostMethod cost.Strategy
	metrics           *metrics.AllocationMetrics
}

type Option func(*Runner)

// WithAirlineCheats lets the airline-reported strategy block displacements it
// prices above zero.
func WithAirlineCheats(method cost.Strategy) Option {
	return func(r *Runner) {
		r.airlineCheats = true
		r.airlineCostMethod = method
	}
}

func WithMetrics(m *metrics.AllocationMetrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

func NewRunner(costMethod cost.Strategy, filler cost.Filler, opts ...Option) (*Runner, error) {
	r := &Runner{
		costMethod: costMethod,
		filler:     filler,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.costMethod == nil {
		return nil, fmt.Errorf("%w: cost method is required", domain.ErrInvalidConfiguration)
	}
	if r.filler == nil {
		return nil, fmt.Errorf("%w: slot filler is required", domain.ErrInvalidConfiguration)
	}
	if r.airlineCheats && r.airlineCostMethod == nil {
		return nil, fmt.Errorf("%w: airline cheats enabled without an airline cost method", domain.ErrInvalidConfiguration)
	}

	return r, nil
}

type Stats struct {
	Considered int
	Displaced  int
	// Blocked counts displacements the cost method accepted but the airline refused.
	Blocked int
}

type Result struct {
	Assignment domain.Assignment
	Stats      Stats
}

func (r *Runner) Allocate(ctx context.Context, slots []domain.Slot, flights []domain.Flight) (domain.Assignment, error) {
	result, err := r.Run(ctx, slots, flights)
	if err != nil {
		return nil, err
	}
	return result.Assignment, nil
}

func (r *Runner) Run(ctx context.Context, slots []domain.Slot, flights []domain.Flight) (*Result, error) {
	assignment, err := rbs.Allocate(ctx, slots, flights)
	if err != nil {
		return nil, err
	}

	var stats Stats
	pending := newFrontier(assignment)

	for pending.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id := pending.next()
		placement := assignment[id]
		stats.Considered++

		req := cost.Request{
			Flight:     placement.Flight,
			Slot:       placement.Slot,
			Flights:    flights,
			Assignment: assignment,
			Filler:     r.filler,
		}

		costDiff, err := r.costMethod.PriceDisplacement(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("price displacement of flight %s: %w", id, err)
		}

		airlineCompat := true
		if r.airlineCheats {
			airlineCostDiff, err := r.airlineCostMethod.PriceDisplacement(ctx, req)
			if err != nil {
				return nil, fmt.Errorf("airline price of flight %s: %w", id, err)
			}
			airlineCompat = airlineCostDiff <= 0
		}

		decision := decisionKept
		switch {
		case costDiff <= 0 && airlineCompat:
			decision = decisionDisplaced
			stats.Displaced++

			assignment.Remove(id)
			assignment = r.filler.Fill([]domain.OpenSlot{{Slot: placement.Slot, Airline: placement.Flight.Airline}}, assignment)
			pending.reset(assignment)
		case costDiff <= 0:
			decision = decisionBlocked
			stats.Blocked++
		}

		r.metrics.RecordDisplacementDecision(ctx, decision)

		slog.DebugContext(ctx, "ctop: considered flight",
			slog.String("flight_id", string(id)),
			slog.String("airline", placement.Flight.Airline.String()),
			slog.String("slot_id", string(placement.Slot.ID)),
			slog.Duration("cost_diff", costDiff),
			slog.String("decision", decision),
		)
	}

	slog.DebugContext(ctx, "ctop: run completed",
		slog.Int("considered", stats.Considered),
		slog.Int("displaced", stats.Displaced),
		slog.Int("blocked", stats.Blocked),
		slog.Int("assigned", len(assignment)),
	)

	return &Result{
		Assignment: assignment,
		Stats:      stats,
	}, nil
}
