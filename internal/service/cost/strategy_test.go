package cost

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-slot-allocation/internal/config"
	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
	"github.com/KasumiMercury/primind-slot-allocation/internal/infra/instance"
	"github.com/KasumiMercury/primind-slot-allocation/internal/service/rbs"
	"github.com/KasumiMercury/primind-slot-allocation/internal/service/slotfill"
)

func smallRequest(t *testing.T, flightID domain.FlightID, compress bool) Request {
	t.Helper()

	inst := instance.SmallInstance()
	assignment, err := rbs.Allocate(context.Background(), inst.Slots, inst.Flights)
	if err != nil {
		t.Fatalf("rbs failed: %v", err)
	}

	placement, ok := assignment[flightID]
	if !ok {
		t.Fatalf("flight %s not assigned", flightID)
	}

	return Request{
		Flight:     placement.Flight,
		Slot:       placement.Slot,
		Flights:    inst.Flights,
		Assignment: assignment,
		Filler:     slotfill.NewFiller(compress),
	}
}

func TestRTC_PriceDisplacement(t *testing.T) {
	tests := []struct {
		name     string
		flightID domain.FlightID
		expected time.Duration
	}{
		// flight 1: rtc 5m, delay 4m
		{name: "keeps when delay below reroute cost", flightID: "1", expected: time.Minute},
		// flight 2: rtc 16m, delay 18m
		{name: "displaces when delay exceeds reroute cost", flightID: "2", expected: -2 * time.Minute},
		// flight 5: rtc 35m, delay 46m
		{name: "late flight", flightID: "5", expected: -11 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := smallRequest(t, tt.flightID, false)

			diff, err := NewRTC().PriceDisplacement(context.Background(), req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, diff)
			}
		})
	}
}

func TestLocalSubstitution_PriceDisplacement(t *testing.T) {
	tests := []struct {
		name     string
		compress bool
		expected time.Duration
	}{
		// Airline B holds flights 1 (4m) and 3 (32m). Without compression the
		// freed 10:00 slot goes to flight 2 and flight 3 only reaches 10:15.
		{name: "system-wide filler", compress: false, expected: 5*time.Minute + 17*time.Minute - 36*time.Minute},
		// With compression flight 3 takes 10:00 directly.
		{name: "compressing filler", compress: true, expected: 5*time.Minute + 2*time.Minute - 36*time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := smallRequest(t, "1", tt.compress)

			diff, err := NewLocalSubstitution(false).PriceDisplacement(context.Background(), req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, diff)
			}
		})
	}
}

func TestLocalSubstitution_WeightedScalesAirlineDelay(t *testing.T) {
	req := smallRequest(t, "4", false)

	unweighted, err := NewLocalSubstitution(false).PriceDisplacement(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	weighted, err := NewLocalSubstitution(true).PriceDisplacement(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Displacing flight 4 (w=100) lets flight 5 (w=10000) move from 11:00 to
	// 10:45; the weighted price is dominated by that gain.
	if unweighted != 30*time.Minute-15*time.Minute-32*time.Minute {
		t.Errorf("unexpected unweighted price %v", unweighted)
	}
	if weighted >= unweighted {
		t.Errorf("expected weighted price below unweighted, got %v >= %v", weighted, unweighted)
	}
}

func TestLocalSubstitution_DoesNotMutateAssignment(t *testing.T) {
	req := smallRequest(t, "2", false)
	before := req.Assignment.Clone()

	if _, err := NewLocalSubstitution(true).PriceDisplacement(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(req.Assignment) != len(before) {
		t.Fatalf("assignment size changed: %d -> %d", len(before), len(req.Assignment))
	}
	for id, p := range before {
		if req.Assignment[id].Slot.ID != p.Slot.ID {
			t.Errorf("flight %s moved from %s to %s", id, p.Slot.ID, req.Assignment[id].Slot.ID)
		}
	}
}

func TestSubproblemReoptimization_PriceDisplacement(t *testing.T) {
	ctrl := gomock.NewController(t)
	optimizer := domain.NewMockOptimizer(ctrl)

	req := smallRequest(t, "1", false)
	airlineB := []domain.Flight{req.Flights[0], req.Flights[2]}
	slotsBefore := req.Assignment.SlotsForAirline("B")

	gomock.InOrder(
		optimizer.EXPECT().
			SolveAssignment(gomock.Any(), slotsBefore, airlineB, true).
			Return(&domain.Solution{Objective: 2160}, nil),
		optimizer.EXPECT().
			SolveAssignment(gomock.Any(), gomock.Any(), airlineB, true).
			Return(&domain.Solution{Objective: 1320.5}, nil),
	)

	diff, err := NewSubproblemReoptimization(true, optimizer).PriceDisplacement(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := -(839*time.Second + 500*time.Millisecond)
	if diff != expected {
		t.Errorf("expected %v, got %v", expected, diff)
	}
}

func TestSubproblemReoptimization_SolvesSameFlightsOverNewSlots(t *testing.T) {
	ctrl := gomock.NewController(t)
	optimizer := domain.NewMockOptimizer(ctrl)

	req := smallRequest(t, "1", false)

	var calls [][]domain.Slot
	optimizer.EXPECT().
		SolveAssignment(gomock.Any(), gomock.Any(), gomock.Any(), false).
		DoAndReturn(func(_ context.Context, slots []domain.Slot, flights []domain.Flight, _ bool) (*domain.Solution, error) {
			if len(flights) != 2 {
				t.Errorf("expected both airline B flights, got %d", len(flights))
			}
			calls = append(calls, slots)
			return &domain.Solution{}, nil
		}).
		Times(2)

	if _, err := NewSubproblemReoptimization(false, optimizer).PriceDisplacement(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(calls) != 2 {
		t.Fatalf("expected 2 solves, got %d", len(calls))
	}
	// Before: 10:00 and 10:30. After the system-wide cascade B only holds 10:15.
	if len(calls[0]) != 2 || len(calls[1]) != 1 {
		t.Fatalf("unexpected slot sets: %v then %v", calls[0], calls[1])
	}
	if calls[1][0].ID != "1" {
		t.Errorf("expected airline B to hold slot 1 after displacement, got %s", calls[1][0].ID)
	}
}

func TestSubproblemReoptimization_PropagatesOptimizerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	optimizer := domain.NewMockOptimizer(ctrl)

	optimizer.EXPECT().
		SolveAssignment(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrOptimizerInfeasible)

	req := smallRequest(t, "3", false)

	_, err := NewSubproblemReoptimization(false, optimizer).PriceDisplacement(context.Background(), req)
	if !errors.Is(err, domain.ErrOptimizerInfeasible) {
		t.Errorf("expected ErrOptimizerInfeasible, got %v", err)
	}
}

func TestNewStrategy(t *testing.T) {
	ctrl := gomock.NewController(t)
	optimizer := domain.NewMockOptimizer(ctrl)

	tests := []struct {
		name      string
		cfg       *config.CostStrategyConfig
		optimizer domain.Optimizer
		check     func(Strategy) bool
		wantErr   error
	}{
		{
			name:  "nil config falls back to rtc",
			cfg:   nil,
			check: func(s Strategy) bool { _, ok := s.(*RTC); return ok },
		},
		{
			name:  "rtc",
			cfg:   &config.CostStrategyConfig{Method: config.CostMethodRTC},
			check: func(s Strategy) bool { _, ok := s.(*RTC); return ok },
		},
		{
			name: "weighted local",
			cfg:  &config.CostStrategyConfig{Method: config.CostMethodLocal, Weighted: true},
			check: func(s Strategy) bool {
				l, ok := s.(*LocalSubstitution)
				return ok && l.Weighted()
			},
		},
		{
			name:      "reoptimize",
			cfg:       &config.CostStrategyConfig{Method: config.CostMethodReoptimize},
			optimizer: optimizer,
			check: func(s Strategy) bool {
				r, ok := s.(*SubproblemReoptimization)
				return ok && !r.Weighted()
			},
		},
		{
			name:    "reoptimize without optimizer",
			cfg:     &config.CostStrategyConfig{Method: config.CostMethodReoptimize},
			wantErr: domain.ErrInvalidConfiguration,
		},
		{
			name:    "unknown method",
			cfg:     &config.CostStrategyConfig{Method: "simplex"},
			wantErr: domain.ErrInvalidConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStrategy(tt.cfg, tt.optimizer)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.check(s) {
				t.Errorf("unexpected strategy type %T", s)
			}
		})
	}
}
