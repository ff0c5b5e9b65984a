package cost

import (
	"context"
	"time"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

var _ Strategy = (*RTC)(nil)

// RTC compares the flight's reroute cost with its own current delay only.
type RTC struct{}

func NewRTC() *RTC {
	return &RTC{}
}

func (r *RTC) PriceDisplacement(_ context.Context, req Request) (time.Duration, error) {
	return domain.CostRTC(req.Flight, req.Slot), nil
}
