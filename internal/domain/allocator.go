package domain

import "context"

// Allocator is the contract every allocation policy satisfies: given slots and
// flights, return a feasible injective assignment or an error.
type Allocator interface {
	Allocate(ctx context.Context, slots []Slot, flights []Flight) (Assignment, error)
}
