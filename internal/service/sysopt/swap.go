package sysopt

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
	"github.com/KasumiMercury/primind-slot-allocation/internal/observability/tracing"
)

const defaultSwapConcurrency = 4

// SwapPass lets every airline reoptimise its own flights over the slots it
// currently holds. Airlines are independent and solved in parallel.
type SwapPass struct {
	weighted    bool
	optimizer   domain.Optimizer
	concurrency int
}

type SwapOption func(*SwapPass)

// WithUnweighted solves the per-airline problems without weights.
func WithUnweighted() SwapOption {
	return func(p *SwapPass) {
		p.weighted = false
	}
}

func WithConcurrency(n int) SwapOption {
	return func(p *SwapPass) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// NewSwapPass solves weighted problems unless WithUnweighted is given.
func NewSwapPass(optimizer domain.Optimizer, opts ...SwapOption) *SwapPass {
	p := &SwapPass{
		weighted:    true,
		optimizer:   optimizer,
		concurrency: defaultSwapConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type airlinePartition struct {
	airline domain.AirlineID
	flights []domain.Flight
	slots   []domain.Slot
}

func partition(flights []domain.Flight, assignment domain.Assignment) []airlinePartition {
	byAirline := make(map[domain.AirlineID]*airlinePartition)
	for _, f := range flights {
		p, ok := byAirline[f.Airline]
		if !ok {
			p = &airlinePartition{
				airline: f.Airline,
				slots:   assignment.SlotsForAirline(f.Airline),
			}
			byAirline[f.Airline] = p
		}
		p.flights = append(p.flights, f)
	}

	parts := make([]airlinePartition, 0, len(byAirline))
	for _, p := range byAirline {
		parts = append(parts, *p)
	}
	sort.Slice(parts, func(i, j int) bool {
		return parts[i].airline < parts[j].airline
	})
	return parts
}

// Apply returns a new assignment; slots never cross airline boundaries.
func (p *SwapPass) Apply(ctx context.Context, flights []domain.Flight, assignment domain.Assignment) (result domain.Assignment, err error) {
	parts := partition(flights, assignment)

	ctx, span := tracing.StartSwapPassSpan(ctx, len(parts))
	defer span.End()
	defer func() {
		tracing.RecordError(span, err)
	}()

	solutions := make([]*domain.Solution, len(parts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, part := range parts {
		g.Go(func() error {
			sol, err := p.optimizer.SolveAssignment(gctx, part.slots, part.flights, p.weighted)
			if err != nil {
				return fmt.Errorf("swap pass for airline %s: %w", part.airline, err)
			}
			solutions[i] = sol
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result = domain.NewAssignment()
	for _, sol := range solutions {
		for id, placement := range sol.Assignment {
			result[id] = placement
		}
	}

	slog.DebugContext(ctx, "swap pass: completed",
		slog.Int("airlines", len(parts)),
		slog.Bool("weighted", p.weighted),
		slog.Int("assigned_before", len(assignment)),
		slog.Int("assigned_after", len(result)),
	)

	return result, nil
}

var _ domain.Allocator = (*Swapped)(nil)

// Swapped runs a policy and then the swap pass over its result.
type Swapped struct {
	policy domain.Allocator
	pass   *SwapPass
}

func WithSwaps(policy domain.Allocator, pass *SwapPass) *Swapped {
	return &Swapped{
		policy: policy,
		pass:   pass,
	}
}

func (s *Swapped) Allocate(ctx context.Context, slots []domain.Slot, flights []domain.Flight) (domain.Assignment, error) {
	assignment, err := s.policy.Allocate(ctx, slots, flights)
	if err != nil {
		return nil, err
	}
	return s.pass.Apply(ctx, flights, assignment)
}
