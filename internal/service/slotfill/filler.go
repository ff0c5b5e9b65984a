package slotfill

import (
	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

// Filler cascades flights forward into freed slots. Each open slot, earliest
// first, is taken by the assigned flight that can use it and currently sits in
// the earliest later slot; that flight's old slot is then opened in turn.
type Filler struct {
	// Compress prefers flights of the airline that vacated the slot.
	Compress bool
}

func NewFiller(compress bool) *Filler {
	return &Filler{Compress: compress}
}

// Fill returns a new assignment; the input is not modified.
func (f *Filler) Fill(open []domain.OpenSlot, assignment domain.Assignment) domain.Assignment {
	result := assignment.Clone()
	queue := newOpenQueue(open)

	for queue.Len() > 0 {
		next := queue.next()

		best, found := f.bestCandidate(next, result)
		if !found {
			continue
		}

		prev := result[best.ID].Slot
		result.Assign(best, next.Slot)
		queue.reopen(domain.OpenSlot{Slot: prev, Airline: next.Airline})
	}

	return result
}

// bestCandidate applies ota <= open < current: a flight may move into a slot at
// its own OTA but never into one at or after its current slot.
func (f *Filler) bestCandidate(open domain.OpenSlot, assignment domain.Assignment) (domain.Flight, bool) {
	var (
		best, bestAirline   domain.Placement
		found, foundAirline bool
	)

	for _, p := range assignment {
		if p.Flight.OTA().After(open.Slot.Time) || !open.Slot.Time.Before(p.Slot.Time) {
			continue
		}

		if !found || placementBefore(p, best) {
			best, found = p, true
		}
		if p.Flight.Airline == open.Airline && (!foundAirline || placementBefore(p, bestAirline)) {
			bestAirline, foundAirline = p, true
		}
	}

	if f.Compress && foundAirline {
		return bestAirline.Flight, true
	}
	return best.Flight, found
}

// placementBefore orders candidates by current slot time, then flight id.
func placementBefore(a, b domain.Placement) bool {
	if !a.Slot.Time.Equal(b.Slot.Time) {
		return a.Slot.Time.Before(b.Slot.Time)
	}
	return a.Flight.ID < b.Flight.ID
}
