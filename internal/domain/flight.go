package domain

import (
	"fmt"
	"math"
	"time"
)

// MaxWeight bounds flight weights so weighted delays stay within time.Duration.
const MaxWeight = 1e6

// FlightID identifies a flight within one allocation instance.
type FlightID string

// AirlineID groups flights for fairness, strategic behaviour and swaps.
type AirlineID string

func (a AirlineID) String() string {
	return string(a)
}

// Flight is an immutable demand record. Use Reweight to derive a copy with a
// different weight.
type Flight struct {
	ID             FlightID
	Airline        AirlineID
	DepartureTime  time.Time
	FlightDuration time.Duration
	// RerouteCost is the delay-equivalent penalty of not receiving any slot.
	RerouteCost time.Duration
	Weight      float64
}

// OTA is the original time of arrival: the earliest instant the flight can use a slot.
func (f Flight) OTA() time.Time {
	return f.DepartureTime.Add(f.FlightDuration)
}

func (f Flight) Reweight(weight float64) Flight {
	f.Weight = weight
	return f
}

// CostWeight returns the flight weight when weighted is set, and 1 otherwise.
func (f Flight) CostWeight(weighted bool) float64 {
	if weighted {
		return f.Weight
	}
	return 1.0
}

func (f Flight) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("%w: flight id is empty", ErrInvalidInstance)
	}
	if f.Airline == "" {
		return fmt.Errorf("%w: flight %s has no airline", ErrInvalidInstance, f.ID)
	}
	if f.FlightDuration < 0 {
		return fmt.Errorf("%w: flight %s has negative duration", ErrInvalidInstance, f.ID)
	}
	if f.RerouteCost < 0 {
		return fmt.Errorf("%w: flight %s has negative reroute cost", ErrInvalidInstance, f.ID)
	}
	if math.IsNaN(f.Weight) || math.IsInf(f.Weight, 0) || f.Weight < 0 {
		return fmt.Errorf("%w: flight %s has invalid weight %v", ErrInvalidInstance, f.ID, f.Weight)
	}
	if f.Weight > MaxWeight {
		return fmt.Errorf("%w: flight %s weight %v exceeds %v", ErrInvalidInstance, f.ID, f.Weight, MaxWeight)
	}
	return nil
}

// ScaleDuration multiplies d by a real weight, rounding to the nearest
// nanosecond. Results outside the time.Duration range saturate.
func ScaleDuration(d time.Duration, weight float64) time.Duration {
	if weight == 1.0 {
		return d
	}
	scaled := math.Round(float64(d) * weight)
	switch {
	case scaled >= math.MaxInt64:
		return math.MaxInt64
	case scaled <= math.MinInt64:
		return math.MinInt64
	}
	return time.Duration(scaled)
}
