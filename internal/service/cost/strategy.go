package cost

import (
	"context"
	"time"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

// Filler refills freed slots; satisfied by *slotfill.Filler.
type Filler interface {
	Fill(open []domain.OpenSlot, assignment domain.Assignment) domain.Assignment
}

// Request describes the displacement being priced: Flight currently holds Slot
// in Assignment and would be rerouted, freeing Slot for Filler.
type Request struct {
	Flight     domain.Flight
	Slot       domain.Slot
	Flights    []domain.Flight
	Assignment domain.Assignment
	Filler     Filler
}

// Strategy prices the displacement of one flight. A result <= 0 means
// rerouting the flight does not increase cost for the strategy's scope.
type Strategy interface {
	PriceDisplacement(ctx context.Context, req Request) (time.Duration, error)
}

// afterDisplacement removes the flight and cascades its slot through the filler.
func afterDisplacement(req Request) domain.Assignment {
	removed := req.Assignment.Clone()
	removed.Remove(req.Flight.ID)
	open := []domain.OpenSlot{{Slot: req.Slot, Airline: req.Flight.Airline}}
	return req.Filler.Fill(open, removed)
}
