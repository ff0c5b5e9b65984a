package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestFlight_OTA(t *testing.T) {
	dep := time.Date(2010, 1, 1, 9, 0, 0, 0, time.UTC)
	f := Flight{ID: "1", Airline: "B", DepartureTime: dep, FlightDuration: 56 * time.Minute}

	want := dep.Add(56 * time.Minute)
	if !f.OTA().Equal(want) {
		t.Errorf("OTA() = %v, want %v", f.OTA(), want)
	}
}

func TestFlight_ReweightChangesOnlyWeight(t *testing.T) {
	dep := time.Date(2010, 1, 1, 9, 30, 0, 0, time.UTC)
	original := Flight{
		ID:             "2",
		Airline:        "A",
		DepartureTime:  dep,
		FlightDuration: 27 * time.Minute,
		RerouteCost:    16 * time.Minute,
		Weight:         100,
	}

	reweighted := original.Reweight(0.5)

	if reweighted.Weight != 0.5 {
		t.Errorf("Weight = %v, want 0.5", reweighted.Weight)
	}
	if original.Weight != 100 {
		t.Errorf("original weight mutated: %v", original.Weight)
	}
	if reweighted.ID != original.ID ||
		reweighted.Airline != original.Airline ||
		!reweighted.DepartureTime.Equal(original.DepartureTime) ||
		reweighted.FlightDuration != original.FlightDuration ||
		reweighted.RerouteCost != original.RerouteCost {
		t.Errorf("Reweight changed more than the weight: %+v -> %+v", original, reweighted)
	}
	if !reweighted.OTA().Equal(original.OTA()) {
		t.Errorf("OTA changed: %v -> %v", original.OTA(), reweighted.OTA())
	}
}

func TestFlight_Validate(t *testing.T) {
	valid := Flight{ID: "f", Airline: "A", FlightDuration: time.Minute, RerouteCost: time.Minute, Weight: 1}

	tests := []struct {
		name    string
		mutate  func(f Flight) Flight
		wantErr bool
	}{
		{name: "valid", mutate: func(f Flight) Flight { return f }},
		{name: "zero weight allowed", mutate: func(f Flight) Flight { return f.Reweight(0) }},
		{name: "empty id", mutate: func(f Flight) Flight { f.ID = ""; return f }, wantErr: true},
		{name: "empty airline", mutate: func(f Flight) Flight { f.Airline = ""; return f }, wantErr: true},
		{name: "negative duration", mutate: func(f Flight) Flight { f.FlightDuration = -time.Second; return f }, wantErr: true},
		{name: "negative reroute cost", mutate: func(f Flight) Flight { f.RerouteCost = -time.Second; return f }, wantErr: true},
		{name: "negative weight", mutate: func(f Flight) Flight { return f.Reweight(-1) }, wantErr: true},
		{name: "NaN weight", mutate: func(f Flight) Flight { return f.Reweight(math.NaN()) }, wantErr: true},
		{name: "max weight allowed", mutate: func(f Flight) Flight { return f.Reweight(MaxWeight) }},
		{name: "weight above max", mutate: func(f Flight) Flight { return f.Reweight(MaxWeight * 10) }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mutate(valid).Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInstance) {
					t.Errorf("expected ErrInvalidInstance, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestScaleDuration(t *testing.T) {
	tests := []struct {
		name   string
		d      time.Duration
		weight float64
		want   time.Duration
	}{
		{name: "identity", d: 90 * time.Second, weight: 1, want: 90 * time.Second},
		{name: "double", d: 90 * time.Second, weight: 2, want: 180 * time.Second},
		{name: "zero", d: 90 * time.Second, weight: 0, want: 0},
		{name: "fractional", d: time.Minute, weight: 0.25, want: 15 * time.Second},
		{name: "saturates high", d: time.Duration(math.MaxInt64 / 2), weight: 4, want: time.Duration(math.MaxInt64)},
		{name: "saturates low", d: time.Duration(math.MinInt64 / 2), weight: 4, want: time.Duration(math.MinInt64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScaleDuration(tt.d, tt.weight); got != tt.want {
				t.Errorf("ScaleDuration(%v, %v) = %v, want %v", tt.d, tt.weight, got, tt.want)
			}
		})
	}
}
