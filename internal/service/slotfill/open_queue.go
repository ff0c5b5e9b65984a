package slotfill

import (
	"container/heap"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

// openQueue is a min-heap of open slots ordered by time, then slot id.
type openQueue struct {
	items []domain.OpenSlot
}

func newOpenQueue(open []domain.OpenSlot) *openQueue {
	q := &openQueue{items: make([]domain.OpenSlot, len(open))}
	copy(q.items, open)
	heap.Init(q)
	return q
}

func (q *openQueue) Len() int {
	return len(q.items)
}

func (q *openQueue) Less(i, j int) bool {
	return domain.SlotBefore(q.items[i].Slot, q.items[j].Slot)
}

func (q *openQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
}

func (q *openQueue) Push(x any) {
	q.items = append(q.items, x.(domain.OpenSlot))
}

func (q *openQueue) Pop() any {
	old := q.items
	n := len(old)
	item := old[n-1]
	q.items = old[:n-1]
	return item
}

func (q *openQueue) next() domain.OpenSlot {
	return heap.Pop(q).(domain.OpenSlot)
}

func (q *openQueue) reopen(open domain.OpenSlot) {
	heap.Push(q, open)
}
