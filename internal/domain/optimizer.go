package domain

import "context"

//go:generate mockgen -source=optimizer.go -destination=optimizer_mock.go -package=domain

// Solution is the result of an exact assignment solve.
type Solution struct {
	Assignment Assignment
	// Objective is the total (optionally weighted) delay plus reroute cost in seconds.
	Objective float64
}

// Optimizer computes a minimum total delay-plus-reroute assignment for a sub-instance.
// Every flight is either placed in a feasible slot or left unassigned.
// Implementations must be deterministic for a fixed input.
type Optimizer interface {
	SolveAssignment(ctx context.Context, slots []Slot, flights []Flight, weighted bool) (*Solution, error)
}

// AssignmentCost is the objective an Optimizer must report for the given assignment.
func AssignmentCost(a Assignment, flights []Flight, weighted bool) float64 {
	total := 0.0
	for _, f := range flights {
		w := f.CostWeight(weighted)
		if p, ok := a[f.ID]; ok {
			total += w * AssignDelay(p.Slot, f).Seconds()
			continue
		}
		total += w * f.RerouteCost.Seconds()
	}
	return total
}
