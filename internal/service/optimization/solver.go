package optimization

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
	"github.com/KasumiMercury/primind-slot-allocation/internal/observability/metrics"
	"github.com/KasumiMercury/primind-slot-allocation/internal/observability/tracing"
)

// costUnit is the resolution of integer arc costs in the flow network.
const costUnit = time.Microsecond

var _ domain.Optimizer = (*Solver)(nil)

// Solver finds a minimum cost assignment as a min-cost flow:
//
//	source -> flight        cap 1, cost 0
//	flight -> slot          cap 1, cost w*delay   (feasible slots only)
//	flight -> sink          cap 1, cost w*reroute
//	slot   -> sink          cap 1, cost 0
//
// Every flight carries one unit, so each either takes a slot or reroutes.
type Solver struct {
	metrics *metrics.AllocationMetrics
}

type Option func(*Solver)

func WithMetrics(m *metrics.AllocationMetrics) Option {
	return func(s *Solver) {
		s.metrics = m
	}
}

func NewSolver(opts ...Option) *Solver {
	s := &Solver{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type slotArc struct {
	slot domain.Slot
	arc  int
}

func (s *Solver) SolveAssignment(ctx context.Context, slots []domain.Slot, flights []domain.Flight, weighted bool) (sol *domain.Solution, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSolveSpan(ctx, len(slots), len(flights), weighted)
	defer span.End()
	defer func() {
		objective := 0.0
		if sol != nil {
			objective = sol.Objective
		}
		tracing.RecordSolveResult(span, objective, err)
	}()

	if err := domain.ValidateInstance(slots, flights); err != nil {
		return nil, err
	}

	start := time.Now()

	sortedFlights := append([]domain.Flight(nil), flights...)
	sort.Slice(sortedFlights, func(i, j int) bool {
		return sortedFlights[i].ID < sortedFlights[j].ID
	})
	sortedSlots := append([]domain.Slot(nil), slots...)
	sort.Slice(sortedSlots, func(i, j int) bool {
		return domain.SlotBefore(sortedSlots[i], sortedSlots[j])
	})

	nf := len(sortedFlights)
	ns := len(sortedSlots)
	source := 0
	sink := nf + ns + 1
	net := newNetwork(nf + ns + 2)

	maxCost := 0.0
	addArc := func(from, to int, cost float64) int {
		maxCost = math.Max(maxCost, cost)
		return net.addArc(from, to, 1, int64(cost))
	}

	candidates := make([][]slotArc, nf)
	for i, f := range sortedFlights {
		fn := 1 + i
		w := f.CostWeight(weighted)

		addArc(source, fn, 0)

		for j, slot := range sortedSlots {
			if !domain.IsFeasible(slot, f) {
				continue
			}
			delay := domain.AssignDelay(slot, f)
			// Waiting longer than the reroute cost is never better than rerouting.
			if delay > f.RerouteCost {
				continue
			}
			id := addArc(fn, 1+nf+j, arcCost(delay, w))
			candidates[i] = append(candidates[i], slotArc{slot: slot, arc: id})
		}

		addArc(fn, sink, arcCost(f.RerouteCost, w))
	}

	for j := range sortedSlots {
		addArc(1+nf+j, sink, 0)
	}

	if err := checkCostRange(maxCost, nf+ns+2); err != nil {
		return nil, err
	}

	flow, _ := net.route(source, sink, nf)
	if flow < nf {
		return nil, fmt.Errorf("%w: routed %d of %d flights", domain.ErrOptimizerInfeasible, flow, nf)
	}

	assignment := domain.NewAssignment()
	for i, f := range sortedFlights {
		for _, c := range candidates[i] {
			if net.flowOn(c.arc) > 0 {
				assignment.Assign(f, c.slot)
				break
			}
		}
	}

	if err := assignment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOptimizerInfeasible, err)
	}

	objective := domain.AssignmentCost(assignment, sortedFlights, weighted)
	elapsed := time.Since(start)

	s.metrics.RecordSolveDuration(ctx, weighted, elapsed)

	slog.DebugContext(ctx, "optimizer: solved assignment",
		slog.Int("slot_count", ns),
		slog.Int("flight_count", nf),
		slog.Int("assigned_count", len(assignment)),
		slog.Bool("weighted", weighted),
		slog.Float64("objective_seconds", objective),
		slog.Duration("elapsed", elapsed),
	)

	return &domain.Solution{
		Assignment: assignment,
		Objective:  objective,
	}, nil
}

// arcCost is the weighted duration in costUnit steps, rounded to a whole step.
func arcCost(d time.Duration, weight float64) float64 {
	return math.Round(float64(d) / float64(costUnit) * weight)
}
