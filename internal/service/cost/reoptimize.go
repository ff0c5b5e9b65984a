package cost

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

var _ Strategy = (*SubproblemReoptimization)(nil)

// SubproblemReoptimization prices a displacement by solving the airline's own
// assignment problem over the slots it holds before and after the filler pass.
// The airline's full flight set is solved both times; only its slots change.
type SubproblemReoptimization struct {
	weighted  bool
	optimizer domain.Optimizer
}

func NewSubproblemReoptimization(weighted bool, optimizer domain.Optimizer) *SubproblemReoptimization {
	return &SubproblemReoptimization{
		weighted:  weighted,
		optimizer: optimizer,
	}
}

func (s *SubproblemReoptimization) Weighted() bool {
	return s.weighted
}

func (s *SubproblemReoptimization) PriceDisplacement(ctx context.Context, req Request) (time.Duration, error) {
	airline := req.Flight.Airline

	airlineFlights := make([]domain.Flight, 0)
	for _, f := range req.Flights {
		if f.Airline == airline {
			airlineFlights = append(airlineFlights, f)
		}
	}

	base, err := s.optimizer.SolveAssignment(ctx, req.Assignment.SlotsForAirline(airline), airlineFlights, s.weighted)
	if err != nil {
		return 0, fmt.Errorf("solve airline %s before displacing %s: %w", airline, req.Flight.ID, err)
	}

	after := afterDisplacement(req)
	rerouted, err := s.optimizer.SolveAssignment(ctx, after.SlotsForAirline(airline), airlineFlights, s.weighted)
	if err != nil {
		return 0, fmt.Errorf("solve airline %s after displacing %s: %w", airline, req.Flight.ID, err)
	}

	diff := secondsToDuration(rerouted.Objective) - secondsToDuration(base.Objective)

	slog.DebugContext(ctx, "subproblem reoptimization: priced displacement",
		slog.String("flight_id", string(req.Flight.ID)),
		slog.String("airline", airline.String()),
		slog.Float64("base_objective", base.Objective),
		slog.Float64("reroute_objective", rerouted.Objective),
		slog.Duration("diff", diff),
	)

	return diff, nil
}

// secondsToDuration rounds to the microsecond so float noise in objectives
// cannot flip the sign of an exact tie.
func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds*1e6)) * time.Microsecond
}
