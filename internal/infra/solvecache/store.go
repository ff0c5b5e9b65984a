package solvecache

import (
	"context"
	"fmt"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

// Store keeps solved assignments by Key. Get returns ErrCacheMiss for absent
// or expired keys.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry *Entry) error
	Close() error
}

// Entry is the stored form of a solution. Flights and slots are kept by id and
// resolved against the request on read.
type Entry struct {
	Placements []PlacementEntry `json:"placements"`
	Objective  float64          `json:"objective"`
}

type PlacementEntry struct {
	FlightID string `json:"flight_id"`
	SlotID   string `json:"slot_id"`
}

func entryFromSolution(sol *domain.Solution) *Entry {
	entry := &Entry{
		Placements: make([]PlacementEntry, 0, len(sol.Assignment)),
		Objective:  sol.Objective,
	}
	for _, id := range sol.Assignment.SortedFlightIDs() {
		entry.Placements = append(entry.Placements, PlacementEntry{
			FlightID: string(id),
			SlotID:   string(sol.Assignment[id].Slot.ID),
		})
	}
	return entry
}

func (e *Entry) solution(slots []domain.Slot, flights []domain.Flight) (*domain.Solution, error) {
	slotByID := make(map[domain.SlotID]domain.Slot, len(slots))
	for _, s := range slots {
		slotByID[s.ID] = s
	}
	flightByID := make(map[domain.FlightID]domain.Flight, len(flights))
	for _, f := range flights {
		flightByID[f.ID] = f
	}

	assignment := domain.NewAssignment()
	for _, p := range e.Placements {
		f, ok := flightByID[domain.FlightID(p.FlightID)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown flight %s", ErrInvalidEntry, p.FlightID)
		}
		s, ok := slotByID[domain.SlotID(p.SlotID)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown slot %s", ErrInvalidEntry, p.SlotID)
		}
		assignment.Assign(f, s)
	}

	if err := assignment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	return &domain.Solution{
		Assignment: assignment,
		Objective:  e.Objective,
	}, nil
}
