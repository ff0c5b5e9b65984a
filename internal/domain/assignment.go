package domain

import (
	"fmt"
	"sort"
	"time"
)

// Placement is one flight sitting in one slot.
type Placement struct {
	Flight Flight
	Slot   Slot
}

// Assignment maps flights to slots. A flight missing from the map is rerouted.
type Assignment map[FlightID]Placement

func NewAssignment() Assignment {
	return make(Assignment)
}

func (a Assignment) Clone() Assignment {
	c := make(Assignment, len(a))
	for id, p := range a {
		c[id] = p
	}
	return c
}

func (a Assignment) Assign(flight Flight, slot Slot) {
	a[flight.ID] = Placement{Flight: flight, Slot: slot}
}

func (a Assignment) Remove(id FlightID) {
	delete(a, id)
}

func (a Assignment) SlotOf(id FlightID) (Slot, bool) {
	p, ok := a[id]
	return p.Slot, ok
}

// ForAirline returns the sub-assignment holding only the airline's flights.
func (a Assignment) ForAirline(airline AirlineID) Assignment {
	sub := make(Assignment)
	for id, p := range a {
		if p.Flight.Airline == airline {
			sub[id] = p
		}
	}
	return sub
}

// SlotsForAirline returns the slots currently held by the airline, ordered by time then id.
func (a Assignment) SlotsForAirline(airline AirlineID) []Slot {
	slots := make([]Slot, 0)
	for _, p := range a {
		if p.Flight.Airline == airline {
			slots = append(slots, p.Slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		return SlotBefore(slots[i], slots[j])
	})
	return slots
}

func (a Assignment) SortedFlightIDs() []FlightID {
	ids := make([]FlightID, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Validate checks injectivity and feasibility.
func (a Assignment) Validate() error {
	holders := make(map[SlotID]FlightID, len(a))
	for _, id := range a.SortedFlightIDs() {
		p := a[id]
		if p.Flight.ID != id {
			return fmt.Errorf("%w: placement key %s holds flight %s", ErrInvalidInstance, id, p.Flight.ID)
		}
		if other, ok := holders[p.Slot.ID]; ok {
			return fmt.Errorf("%w: slot %s held by %s and %s", ErrInfeasibleAllocation, p.Slot.ID, other, id)
		}
		holders[p.Slot.ID] = id
		if !IsFeasible(p.Slot, p.Flight) {
			return fmt.Errorf("%w: flight %s cannot use slot %s before its arrival", ErrInfeasibleAllocation, id, p.Slot.ID)
		}
	}
	return nil
}

// AirlineDelay sums assigned delay, restricted to one airline unless airline is nil.
func AirlineDelay(a Assignment, airline *AirlineID, useWeights bool) time.Duration {
	var total time.Duration
	for _, p := range a {
		if airline != nil && p.Flight.Airline != *airline {
			continue
		}
		total += ScaleDuration(AssignDelay(p.Slot, p.Flight), p.Flight.CostWeight(useWeights))
	}
	return total
}
