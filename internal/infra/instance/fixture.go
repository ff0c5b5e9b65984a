package instance

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

// Instance is one allocation problem: a slot pool and the flights competing for it.
type Instance struct {
	Slots   []domain.Slot
	Flights []domain.Flight
}

func (in Instance) Validate() error {
	return domain.ValidateInstance(in.Slots, in.Flights)
}

// SmallInstance is a five-flight, two-airline fixture with five slots spaced
// 15 minutes apart from 60 minutes after the origin.
func SmallInstance() Instance {
	start := time.Date(2010, 1, 1, 9, 0, 0, 0, time.UTC)

	slots := make([]domain.Slot, 0, 5)
	for i := range 5 {
		slots = append(slots, domain.Slot{
			ID:   domain.SlotID(fmt.Sprintf("%d", i)),
			Time: start.Add(time.Duration(60+i*15) * time.Minute),
		})
	}

	flights := []domain.Flight{
		{
			ID:             "1",
			Airline:        "B",
			DepartureTime:  start,
			FlightDuration: 56 * time.Minute,
			RerouteCost:    5 * time.Minute,
			Weight:         1,
		},
		{
			ID:             "2",
			Airline:        "A",
			DepartureTime:  start.Add(30 * time.Minute),
			FlightDuration: 27 * time.Minute,
			RerouteCost:    16 * time.Minute,
			Weight:         100,
		},
		{
			ID:             "3",
			Airline:        "B",
			DepartureTime:  start.Add(15 * time.Minute),
			FlightDuration: 43 * time.Minute,
			RerouteCost:    35 * time.Minute,
			Weight:         1,
		},
		{
			ID:             "4",
			Airline:        "A",
			DepartureTime:  start.Add(60 * time.Minute),
			FlightDuration: 13 * time.Minute,
			RerouteCost:    30 * time.Minute,
			Weight:         100,
		},
		{
			ID:             "5",
			Airline:        "A",
			DepartureTime:  start.Add(45 * time.Minute),
			FlightDuration: 29 * time.Minute,
			RerouteCost:    35 * time.Minute,
			Weight:         10000,
		},
	}

	return Instance{Slots: slots, Flights: flights}
}
