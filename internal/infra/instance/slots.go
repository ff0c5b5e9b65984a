package instance

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

// GenerateSlots creates evenly spaced slots from start through end inclusive.
func GenerateSlots(start, end time.Time, perHour int) []domain.Slot {
	if perHour <= 0 || end.Before(start) {
		return nil
	}

	spacing := time.Hour / time.Duration(perHour)
	slots := make([]domain.Slot, 0, int(end.Sub(start)/spacing)+1)
	for i, next := 0, start; !next.After(end); i, next = i+1, next.Add(spacing) {
		slots = append(slots, domain.Slot{
			ID:   domain.SlotID(fmt.Sprintf("S%d", i)),
			Time: next,
		})
	}
	return slots
}

// NormalizeWeights rescales weights so each airline's mean weight is 1.
// Airlines whose weights sum to zero are left unchanged.
func NormalizeWeights(flights []domain.Flight) []domain.Flight {
	sums := make(map[domain.AirlineID]float64)
	counts := make(map[domain.AirlineID]int)
	for _, f := range flights {
		sums[f.Airline] += f.Weight
		counts[f.Airline]++
	}

	normalized := make([]domain.Flight, 0, len(flights))
	for _, f := range flights {
		avg := sums[f.Airline] / float64(counts[f.Airline])
		if avg == 0 {
			normalized = append(normalized, f)
			continue
		}
		normalized = append(normalized, f.Reweight(f.Weight/avg))
	}
	return normalized
}
