package solvecache

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
	"github.com/KasumiMercury/primind-slot-allocation/internal/observability/metrics"
)

var _ domain.Optimizer = (*CachingOptimizer)(nil)

// CachingOptimizer memoises an Optimizer. Cache failures are logged and fall
// through to the wrapped optimizer; they never fail a solve.
type CachingOptimizer struct {
	next    domain.Optimizer
	store   Store
	backend string
	metrics *metrics.AllocationMetrics
}

func NewCachingOptimizer(next domain.Optimizer, store Store, backend string, m *metrics.AllocationMetrics) *CachingOptimizer {
	return &CachingOptimizer{
		next:    next,
		store:   store,
		backend: backend,
		metrics: m,
	}
}

func (c *CachingOptimizer) SolveAssignment(ctx context.Context, slots []domain.Slot, flights []domain.Flight, weighted bool) (*domain.Solution, error) {
	key := Key(slots, flights, weighted)

	entry, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		sol, decodeErr := entry.solution(slots, flights)
		if decodeErr == nil {
			c.metrics.RecordCacheLookup(ctx, c.backend, true)
			return sol, nil
		}
		slog.WarnContext(ctx, "solve cache: discarding unusable entry",
			slog.String("key", key),
			slog.String("error", decodeErr.Error()),
		)
	case !errors.Is(err, ErrCacheMiss):
		slog.WarnContext(ctx, "solve cache: lookup failed",
			slog.String("backend", c.backend),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	c.metrics.RecordCacheLookup(ctx, c.backend, false)

	sol, err := c.next.SolveAssignment(ctx, slots, flights, weighted)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, key, entryFromSolution(sol)); err != nil {
		slog.WarnContext(ctx, "solve cache: store failed",
			slog.String("backend", c.backend),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	return sol, nil
}
