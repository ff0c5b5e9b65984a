package solvecache

import (
	"testing"
	"time"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
	"github.com/KasumiMercury/primind-slot-allocation/internal/infra/instance"
)

func TestKey_IgnoresInputOrder(t *testing.T) {
	inst := instance.SmallInstance()

	reversedSlots := make([]domain.Slot, len(inst.Slots))
	for i, s := range inst.Slots {
		reversedSlots[len(inst.Slots)-1-i] = s
	}
	reversedFlights := make([]domain.Flight, len(inst.Flights))
	for i, f := range inst.Flights {
		reversedFlights[len(inst.Flights)-1-i] = f
	}

	a := Key(inst.Slots, inst.Flights, true)
	b := Key(reversedSlots, reversedFlights, true)
	if a != b {
		t.Errorf("expected equal keys, got %s and %s", a, b)
	}
}

func TestKey_SensitiveToInputs(t *testing.T) {
	inst := instance.SmallInstance()
	base := Key(inst.Slots, inst.Flights, true)

	tests := []struct {
		name   string
		mutate func(slots []domain.Slot, flights []domain.Flight) ([]domain.Slot, []domain.Flight, bool)
	}{
		{
			name: "weighted flag",
			mutate: func(s []domain.Slot, f []domain.Flight) ([]domain.Slot, []domain.Flight, bool) {
				return s, f, false
			},
		},
		{
			name: "slot time",
			mutate: func(s []domain.Slot, f []domain.Flight) ([]domain.Slot, []domain.Flight, bool) {
				s[0].Time = s[0].Time.Add(time.Second)
				return s, f, true
			},
		},
		{
			name: "reroute cost",
			mutate: func(s []domain.Slot, f []domain.Flight) ([]domain.Slot, []domain.Flight, bool) {
				f[2].RerouteCost += time.Second
				return s, f, true
			},
		},
		{
			name: "weight",
			mutate: func(s []domain.Slot, f []domain.Flight) ([]domain.Slot, []domain.Flight, bool) {
				f[1] = f[1].Reweight(f[1].Weight + 0.5)
				return s, f, true
			},
		},
		{
			name: "dropped flight",
			mutate: func(s []domain.Slot, f []domain.Flight) ([]domain.Slot, []domain.Flight, bool) {
				return s, f[:4], true
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fresh := instance.SmallInstance()
			slots, flights, weighted := tt.mutate(fresh.Slots, fresh.Flights)

			if got := Key(slots, flights, weighted); got == base {
				t.Errorf("expected key to change, still %s", got)
			}
		})
	}
}

func TestKey_UnweightedIgnoresWeight(t *testing.T) {
	inst := instance.SmallInstance()
	reweighted := make([]domain.Flight, len(inst.Flights))
	for i, f := range inst.Flights {
		reweighted[i] = f.Reweight(42)
	}

	if Key(inst.Slots, inst.Flights, false) != Key(inst.Slots, reweighted, false) {
		t.Error("expected unweighted key to ignore weights")
	}
}
