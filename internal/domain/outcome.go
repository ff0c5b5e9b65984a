package domain

import (
	"sort"
	"time"
)

// FlightOutcome is the per-flight view of a finished allocation, in seconds.
type FlightOutcome struct {
	FlightID FlightID
	Airline  AirlineID
	SlotID   SlotID // empty when rerouted
	SlotTime time.Time
	Rerouted bool

	GroundDelay         float64
	RerouteCost         float64
	Total               float64
	WeightedGroundDelay float64
	WeightedRerouteCost float64
	WeightedTotal       float64
}

// Summary aggregates outcomes of one policy run.
type Summary struct {
	Flights  int
	Rerouted int

	GroundDelay         float64
	RerouteCost         float64
	Total               float64
	WeightedGroundDelay float64
	WeightedRerouteCost float64
	WeightedTotal       float64
}

// AverageTotal is the mean unweighted cost per flight.
func (s Summary) AverageTotal() float64 {
	if s.Flights == 0 {
		return 0
	}
	return s.Total / float64(s.Flights)
}

func (s Summary) AverageWeightedTotal() float64 {
	if s.Flights == 0 {
		return 0
	}
	return s.WeightedTotal / float64(s.Flights)
}

// Outcomes derives per-flight results, ordered by flight id.
func Outcomes(a Assignment, flights []Flight) []FlightOutcome {
	outcomes := make([]FlightOutcome, 0, len(flights))
	for _, f := range flights {
		o := FlightOutcome{FlightID: f.ID, Airline: f.Airline}
		if p, ok := a[f.ID]; ok {
			gd := AssignDelay(p.Slot, f).Seconds()
			o.SlotID = p.Slot.ID
			o.SlotTime = p.Slot.Time
			o.GroundDelay = gd
			o.WeightedGroundDelay = gd * f.Weight
		} else {
			rr := f.RerouteCost.Seconds()
			o.Rerouted = true
			o.RerouteCost = rr
			o.WeightedRerouteCost = rr * f.Weight
		}
		o.Total = o.GroundDelay + o.RerouteCost
		o.WeightedTotal = o.WeightedGroundDelay + o.WeightedRerouteCost
		outcomes = append(outcomes, o)
	}
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].FlightID < outcomes[j].FlightID
	})
	return outcomes
}

func Summarize(outcomes []FlightOutcome) Summary {
	s := Summary{Flights: len(outcomes)}
	for _, o := range outcomes {
		if o.Rerouted {
			s.Rerouted++
		}
		s.GroundDelay += o.GroundDelay
		s.RerouteCost += o.RerouteCost
		s.Total += o.Total
		s.WeightedGroundDelay += o.WeightedGroundDelay
		s.WeightedRerouteCost += o.WeightedRerouteCost
		s.WeightedTotal += o.WeightedTotal
	}
	return s
}
