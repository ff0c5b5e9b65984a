package ctop

import (
	"container/heap"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

// frontier holds flights not yet considered, ordered by their current slot
// time then flight id. Slot times are read from the live assignment, so the
// heap must be re-initialised whenever a cascade moves flights.
type frontier struct {
	ids        []domain.FlightID
	assignment domain.Assignment
}

func newFrontier(assignment domain.Assignment) *frontier {
	f := &frontier{
		ids:        assignment.SortedFlightIDs(),
		assignment: assignment,
	}
	heap.Init(f)
	return f
}

func (f *frontier) Len() int {
	return len(f.ids)
}

func (f *frontier) Less(i, j int) bool {
	a, b := f.assignment[f.ids[i]].Slot, f.assignment[f.ids[j]].Slot
	if !a.Time.Equal(b.Time) {
		return a.Time.Before(b.Time)
	}
	return f.ids[i] < f.ids[j]
}

func (f *frontier) Swap(i, j int) {
	f.ids[i], f.ids[j] = f.ids[j], f.ids[i]
}

func (f *frontier) Push(x any) {
	f.ids = append(f.ids, x.(domain.FlightID))
}

func (f *frontier) Pop() any {
	old := f.ids
	n := len(old)
	id := old[n-1]
	f.ids = old[:n-1]
	return id
}

func (f *frontier) next() domain.FlightID {
	return heap.Pop(f).(domain.FlightID)
}

func (f *frontier) reset(assignment domain.Assignment) {
	f.assignment = assignment
	heap.Init(f)
}
