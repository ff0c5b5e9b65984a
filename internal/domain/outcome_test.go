package domain

import (
	"testing"
)

func TestOutcomes_AssignedAndRerouted(t *testing.T) {
	assigned := testFlight("1", "A", 60, 2)
	rerouted := testFlight("2", "B", 60, 3)

	a := NewAssignment()
	a.Assign(assigned, testSlot("s1", 70))

	outcomes := Outcomes(a, []Flight{rerouted, assigned})
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}

	first := outcomes[0]
	if first.FlightID != "1" || first.Rerouted {
		t.Fatalf("expected flight 1 assigned first, got %+v", first)
	}
	if first.GroundDelay != 600 || first.WeightedGroundDelay != 1200 {
		t.Errorf("flight 1 delay = %v/%v, want 600/1200", first.GroundDelay, first.WeightedGroundDelay)
	}
	if first.SlotID != "s1" {
		t.Errorf("flight 1 slot = %q, want s1", first.SlotID)
	}

	second := outcomes[1]
	if !second.Rerouted {
		t.Fatalf("expected flight 2 rerouted")
	}
	if second.RerouteCost != 1800 || second.WeightedRerouteCost != 5400 {
		t.Errorf("flight 2 reroute = %v/%v, want 1800/5400", second.RerouteCost, second.WeightedRerouteCost)
	}

	summary := Summarize(outcomes)
	if summary.Rerouted != 1 {
		t.Errorf("Rerouted = %d, want 1", summary.Rerouted)
	}
	if summary.Total != 2400 {
		t.Errorf("Total = %v, want 2400", summary.Total)
	}
	if summary.WeightedTotal != 6600 {
		t.Errorf("WeightedTotal = %v, want 6600", summary.WeightedTotal)
	}
	if got := summary.AverageTotal(); got != 1200 {
		t.Errorf("AverageTotal = %v, want 1200", got)
	}
}

func TestAssignmentCost_MatchesOutcomes(t *testing.T) {
	f1 := testFlight("1", "A", 60, 2)
	f2 := testFlight("2", "B", 60, 3)
	a := NewAssignment()
	a.Assign(f1, testSlot("s1", 70))

	flights := []Flight{f1, f2}
	summary := Summarize(Outcomes(a, flights))

	if got := AssignmentCost(a, flights, false); got != summary.Total {
		t.Errorf("unweighted cost = %v, want %v", got, summary.Total)
	}
	if got := AssignmentCost(a, flights, true); got != summary.WeightedTotal {
		t.Errorf("weighted cost = %v, want %v", got, summary.WeightedTotal)
	}
}
