package domain

import (
	"fmt"
	"math"
	"time"
)

// maxWeightedTotal caps the summed worst-case weighted delay of an instance.
const maxWeightedTotal = float64(1 << 62)

type SlotID string

// Slot is a single-use capacity unit available at one instant.
type Slot struct {
	ID   SlotID
	Time time.Time
}

// OpenSlot is a freed slot tagged with the airline that vacated it.
type OpenSlot struct {
	Slot    Slot
	Airline AirlineID
}

// SlotBefore orders slots by time, then by id.
func SlotBefore(a, b Slot) bool {
	if !a.Time.Equal(b.Time) {
		return a.Time.Before(b.Time)
	}
	return a.ID < b.ID
}

func IsFeasible(slot Slot, flight Flight) bool {
	return !slot.Time.Before(flight.OTA())
}

// AssignDelay is only meaningful for feasible pairs.
func AssignDelay(slot Slot, flight Flight) time.Duration {
	return slot.Time.Sub(flight.OTA())
}

// CostRTC prices keeping a flight in its slot against its own reroute alternative.
func CostRTC(flight Flight, slot Slot) time.Duration {
	return flight.RerouteCost - AssignDelay(slot, flight)
}

// ValidateInstance rejects duplicate ids, malformed flights and instances
// whose weighted delays could overflow a time.Duration.
func ValidateInstance(slots []Slot, flights []Flight) error {
	seenSlots := make(map[SlotID]struct{}, len(slots))
	var latest time.Time
	for _, s := range slots {
		if s.ID == "" {
			return fmt.Errorf("%w: slot id is empty", ErrInvalidInstance)
		}
		if _, ok := seenSlots[s.ID]; ok {
			return fmt.Errorf("%w: duplicate slot %s", ErrInvalidInstance, s.ID)
		}
		seenSlots[s.ID] = struct{}{}
		if latest.IsZero() || s.Time.After(latest) {
			latest = s.Time
		}
	}

	seenFlights := make(map[FlightID]struct{}, len(flights))
	for _, f := range flights {
		if err := f.Validate(); err != nil {
			return err
		}
		if _, ok := seenFlights[f.ID]; ok {
			return fmt.Errorf("%w: duplicate flight %s", ErrInvalidInstance, f.ID)
		}
		seenFlights[f.ID] = struct{}{}
	}

	return checkWeightedRange(latest, len(slots) > 0, flights)
}

// checkWeightedRange bounds the sum over flights of weight times the larger of
// the reroute cost and the longest delay any slot could impose.
func checkWeightedRange(latest time.Time, hasSlots bool, flights []Flight) error {
	total := 0.0
	for _, f := range flights {
		worst := float64(f.RerouteCost)
		if hasSlots {
			worst = math.Max(worst, float64(latest.Sub(f.OTA())))
		}
		total += math.Max(f.Weight, 1) * worst
		if total >= maxWeightedTotal {
			return fmt.Errorf("%w: weighted delays exceed the duration range at flight %s", ErrInvalidInstance, f.ID)
		}
	}
	return nil
}
