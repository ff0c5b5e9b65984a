package ctop

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
	"github.com/KasumiMercury/primind-slot-allocation/internal/infra/instance"
	"github.com/KasumiMercury/primind-slot-allocation/internal/service/cost"
	"github.com/KasumiMercury/primind-slot-allocation/internal/service/rbs"
	"github.com/KasumiMercury/primind-slot-allocation/internal/service/slotfill"
)

type fixedStrategy struct {
	diff  time.Duration
	calls int
}

func (s *fixedStrategy) PriceDisplacement(_ context.Context, _ cost.Request) (time.Duration, error) {
	s.calls++
	return s.diff, nil
}

type failingStrategy struct{}

func (failingStrategy) PriceDisplacement(_ context.Context, _ cost.Request) (time.Duration, error) {
	return 0, domain.ErrOptimizerInfeasible
}

func slotIDs(a domain.Assignment) map[domain.FlightID]domain.SlotID {
	ids := make(map[domain.FlightID]domain.SlotID, len(a))
	for id, p := range a {
		ids[id] = p.Slot.ID
	}
	return ids
}

func TestNewRunner_Validation(t *testing.T) {
	filler := slotfill.NewFiller(false)

	tests := []struct {
		name    string
		method  cost.Strategy
		filler  cost.Filler
		opts    []Option
		wantErr bool
	}{
		{name: "valid", method: cost.NewRTC(), filler: filler},
		{name: "valid with cheats", method: cost.NewRTC(), filler: filler, opts: []Option{WithAirlineCheats(cost.NewLocalSubstitution(true))}},
		{name: "cheats without airline method", method: cost.NewRTC(), filler: filler, opts: []Option{WithAirlineCheats(nil)}, wantErr: true},
		{name: "missing cost method", filler: filler, wantErr: true},
		{name: "missing filler", method: cost.NewRTC(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(tt.method, tt.filler, tt.opts...)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidConfiguration) {
					t.Errorf("expected ErrInvalidConfiguration, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRunner_SmallInstanceRTC(t *testing.T) {
	inst := instance.SmallInstance()
	runner, err := NewRunner(cost.NewRTC(), slotfill.NewFiller(false))
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), inst.Slots, inst.Flights)
	require.NoError(t, err)

	// Only flight 2 waits longer than its reroute cost; the cascade pulls
	// 3, 4 and 5 forward one slot each.
	expected := map[domain.FlightID]domain.SlotID{"1": "0", "3": "1", "4": "2", "5": "3"}
	assert.Equal(t, expected, slotIDs(result.Assignment))
	assert.Equal(t, Stats{Considered: 5, Displaced: 1}, result.Stats)
}

func TestRunner_SmallInstanceCompressedLocal(t *testing.T) {
	inst := instance.SmallInstance()
	runner, err := NewRunner(cost.NewLocalSubstitution(false), slotfill.NewFiller(true))
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), inst.Slots, inst.Flights)
	require.NoError(t, err)

	expected := map[domain.FlightID]domain.SlotID{"3": "0", "4": "1", "5": "2"}
	assert.Equal(t, expected, slotIDs(result.Assignment))
	assert.Equal(t, 2, result.Stats.Displaced)
}

func TestRunner_AirlineCheatsBlockDisplacement(t *testing.T) {
	inst := instance.SmallInstance()
	// RTC accepts flights 2, 4 and 5; the airline refuses all of them.
	airline := &fixedStrategy{diff: time.Second}

	runner, err := NewRunner(cost.NewRTC(), slotfill.NewFiller(false), WithAirlineCheats(airline))
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), inst.Slots, inst.Flights)
	require.NoError(t, err)

	baseline, err := rbs.Allocate(context.Background(), inst.Slots, inst.Flights)
	require.NoError(t, err)

	assert.Equal(t, slotIDs(baseline), slotIDs(result.Assignment))
	assert.Equal(t, Stats{Considered: 5, Blocked: 3}, result.Stats)
	assert.Equal(t, 5, airline.calls)
}

func TestRunner_AirlineCheatsIgnoreMagnitude(t *testing.T) {
	inst := instance.SmallInstance()

	// A zero airline price is compliant, so the outcome matches no cheating.
	withCheats, err := NewRunner(cost.NewRTC(), slotfill.NewFiller(false), WithAirlineCheats(&fixedStrategy{}))
	require.NoError(t, err)
	honest, err := NewRunner(cost.NewRTC(), slotfill.NewFiller(false))
	require.NoError(t, err)

	a, err := withCheats.Allocate(context.Background(), inst.Slots, inst.Flights)
	require.NoError(t, err)
	b, err := honest.Allocate(context.Background(), inst.Slots, inst.Flights)
	require.NoError(t, err)

	assert.Equal(t, slotIDs(b), slotIDs(a))
}

func TestRunner_DisplacesEveryFlightWhenAlwaysNegative(t *testing.T) {
	inst := instance.SmallInstance()
	runner, err := NewRunner(&fixedStrategy{diff: -time.Second}, slotfill.NewFiller(false))
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), inst.Slots, inst.Flights)
	require.NoError(t, err)

	assert.Empty(t, result.Assignment)
	assert.Equal(t, 5, result.Stats.Considered)
	assert.Equal(t, 5, result.Stats.Displaced)
}

func TestRunner_PropagatesErrors(t *testing.T) {
	inst := instance.SmallInstance()

	t.Run("infeasible seed", func(t *testing.T) {
		runner, err := NewRunner(cost.NewRTC(), slotfill.NewFiller(false))
		require.NoError(t, err)

		_, err = runner.Allocate(context.Background(), inst.Slots[:4], inst.Flights)
		if !errors.Is(err, domain.ErrInfeasibleAllocation) {
			t.Errorf("expected ErrInfeasibleAllocation, got %v", err)
		}
	})

	t.Run("strategy failure", func(t *testing.T) {
		runner, err := NewRunner(failingStrategy{}, slotfill.NewFiller(false))
		require.NoError(t, err)

		a, err := runner.Allocate(context.Background(), inst.Slots, inst.Flights)
		if !errors.Is(err, domain.ErrOptimizerInfeasible) {
			t.Errorf("expected ErrOptimizerInfeasible, got %v", err)
		}
		if a != nil {
			t.Errorf("expected no assignment on error, got %v", a)
		}
	})
}

func randomInstance(rng *rand.Rand, n int) ([]domain.Slot, []domain.Flight) {
	origin := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	airlines := []domain.AirlineID{"A", "B", "C"}

	flights := make([]domain.Flight, n)
	for i := range flights {
		flights[i] = domain.Flight{
			ID:             domain.FlightID(fmt.Sprintf("f%02d", i)),
			Airline:        airlines[rng.IntN(len(airlines))],
			DepartureTime:  origin,
			FlightDuration: time.Duration(rng.IntN(60)) * time.Minute,
			RerouteCost:    time.Duration(rng.IntN(90)) * time.Minute,
			Weight:         0.25 + rng.Float64()*2,
		}
	}

	// One slot per flight after the last OTA keeps RBS feasible.
	slots := make([]domain.Slot, 0, 2*n)
	for i := range n {
		slots = append(slots, domain.Slot{
			ID:   domain.SlotID(fmt.Sprintf("late%02d", i)),
			Time: origin.Add(time.Duration(60+5*i) * time.Minute),
		})
		slots = append(slots, domain.Slot{
			ID:   domain.SlotID(fmt.Sprintf("early%02d", i)),
			Time: origin.Add(time.Duration(rng.IntN(60)) * time.Minute),
		})
	}

	return slots, flights
}

func TestRunner_MonotonicImprovement(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))

	strategies := map[string]func() cost.Strategy{
		"rtc":   func() cost.Strategy { return cost.NewRTC() },
		"local": func() cost.Strategy { return cost.NewLocalSubstitution(false) },
	}

	for trial := range 25 {
		slots, flights := randomInstance(rng, 4+rng.IntN(10))

		baseline, err := rbs.Allocate(context.Background(), slots, flights)
		require.NoError(t, err)
		baseCost := domain.AssignmentCost(baseline, flights, false)

		for name, newStrategy := range strategies {
			for _, compress := range []bool{false, true} {
				runner, err := NewRunner(newStrategy(), slotfill.NewFiller(compress))
				require.NoError(t, err)

				a, err := runner.Allocate(context.Background(), slots, flights)
				require.NoError(t, err)
				require.NoError(t, a.Validate())

				got := domain.AssignmentCost(a, flights, false)
				assert.LessOrEqualf(t, got, baseCost+1e-9,
					"trial %d strategy %s compress %v: cost rose from %v to %v", trial, name, compress, baseCost, got)
			}
		}
	}
}

func TestRunner_UnweightedStrategiesIgnoreWeights(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))

	strategies := map[string]func() cost.Strategy{
		"rtc":   func() cost.Strategy { return cost.NewRTC() },
		"local": func() cost.Strategy { return cost.NewLocalSubstitution(false) },
	}

	for trial := range 10 {
		slots, flights := randomInstance(rng, 10)

		reweighted := make([]domain.Flight, len(flights))
		for i, f := range flights {
			reweighted[i] = f.Reweight(f.Weight * float64(1+i%7))
		}

		for name, newStrategy := range strategies {
			runner, err := NewRunner(newStrategy(), slotfill.NewFiller(true))
			require.NoError(t, err)

			a, err := runner.Allocate(context.Background(), slots, flights)
			require.NoError(t, err)
			b, err := runner.Allocate(context.Background(), slots, reweighted)
			require.NoError(t, err)

			assert.Equalf(t, slotIDs(a), slotIDs(b), "trial %d strategy %s", trial, name)
		}
	}
}

func TestRunner_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 8))
	slots, flights := randomInstance(rng, 12)

	runner, err := NewRunner(cost.NewLocalSubstitution(true), slotfill.NewFiller(true))
	require.NoError(t, err)

	first, err := runner.Allocate(context.Background(), slots, flights)
	require.NoError(t, err)

	for range 3 {
		again, err := runner.Allocate(context.Background(), slots, flights)
		require.NoError(t, err)
		assert.Equal(t, slotIDs(first), slotIDs(again))
	}
}
