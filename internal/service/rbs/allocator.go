package rbs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

// Allocator is the ration-by-schedule baseline: flights in OTA order each take
// the earliest feasible slot still unclaimed.
type Allocator struct{}

func NewAllocator() *Allocator {
	return &Allocator{}
}

func (a *Allocator) Allocate(ctx context.Context, slots []domain.Slot, flights []domain.Flight) (domain.Assignment, error) {
	return Allocate(ctx, slots, flights)
}

// Allocate fails with domain.ErrInfeasibleAllocation as soon as one flight has
// no feasible slot left. No partial assignment is returned.
func Allocate(ctx context.Context, slots []domain.Slot, flights []domain.Flight) (domain.Assignment, error) {
	ordered := make([]domain.Flight, len(flights))
	copy(ordered, flights)
	sort.SliceStable(ordered, func(i, j int) bool {
		oi, oj := ordered[i].OTA(), ordered[j].OTA()
		if !oi.Equal(oj) {
			return oi.Before(oj)
		}
		return ordered[i].ID < ordered[j].ID
	})

	remaining := make([]domain.Slot, len(slots))
	copy(remaining, slots)
	sort.Slice(remaining, func(i, j int) bool {
		return domain.SlotBefore(remaining[i], remaining[j])
	})

	assignment := domain.NewAssignment()
	for _, flight := range ordered {
		idx := earliestFeasible(remaining, flight)
		if idx < 0 {
			slog.DebugContext(ctx, "rbs: no feasible slot left",
				slog.String("flight_id", string(flight.ID)),
				slog.Time("ota", flight.OTA()),
				slog.Int("remaining_slots", len(remaining)),
			)
			return nil, fmt.Errorf("%w: flight %s (ota %s)", domain.ErrInfeasibleAllocation, flight.ID, flight.OTA().Format("2006-01-02T15:04:05"))
		}

		slot := remaining[idx]
		assignment.Assign(flight, slot)
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	slog.DebugContext(ctx, "rbs: allocation completed",
		slog.Int("flights", len(ordered)),
		slog.Int("unused_slots", len(remaining)),
	)

	return assignment, nil
}

// earliestFeasible relies on remaining being sorted by time then id.
func earliestFeasible(remaining []domain.Slot, flight domain.Flight) int {
	idx := sort.Search(len(remaining), func(i int) bool {
		return domain.IsFeasible(remaining[i], flight)
	})
	if idx == len(remaining) {
		return -1
	}
	return idx
}
