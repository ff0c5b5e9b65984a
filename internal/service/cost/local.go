package cost

import (
	"context"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

var _ Strategy = (*LocalSubstitution)(nil)

// LocalSubstitution prices a displacement by one filler pass, measured on the
// displaced flight's airline.
type LocalSubstitution struct {
	weighted bool
}

func NewLocalSubstitution(weighted bool) *LocalSubstitution {
	return &LocalSubstitution{weighted: weighted}
}

func (l *LocalSubstitution) Weighted() bool {
	return l.weighted
}

func (l *LocalSubstitution) PriceDisplacement(ctx context.Context, req Request) (time.Duration, error) {
	airline := req.Flight.Airline

	baseCost := domain.AirlineDelay(req.Assignment, &airline, l.weighted)

	after := afterDisplacement(req)
	rerouteCost := domain.ScaleDuration(req.Flight.RerouteCost, req.Flight.CostWeight(l.weighted)) +
		domain.AirlineDelay(after, &airline, l.weighted)

	diff := rerouteCost - baseCost

	slog.DebugContext(ctx, "local substitution: priced displacement",
		slog.String("flight_id", string(req.Flight.ID)),
		slog.String("airline", airline.String()),
		slog.Duration("base_cost", baseCost),
		slog.Duration("reroute_cost", rerouteCost),
		slog.Duration("diff", diff),
	)

	return diff, nil
}
