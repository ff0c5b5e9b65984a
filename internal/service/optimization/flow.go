package optimization

import (
	"container/heap"
	"fmt"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

// unreachable is the distance of nodes with no residual path from the source.
const unreachable = int64(1) << 60

// arc is one direction of a residual pair. Arcs 2k and 2k+1 reverse each other.
type arc struct {
	head     int
	residual int
	cost     int64
}

// network routes flight demand through slot arcs at minimum total cost using
// successive shortest paths with node potentials. Arc costs must be non-negative.
type network struct {
	arcs []arc
	out  [][]int
}

func newNetwork(nodes int) *network {
	return &network{out: make([][]int, nodes)}
}

// addArc adds from -> to with its empty reverse arc and returns the forward arc id.
func (n *network) addArc(from, to, capacity int, cost int64) int {
	id := len(n.arcs)
	n.arcs = append(n.arcs,
		arc{head: to, residual: capacity, cost: cost},
		arc{head: from, cost: -cost},
	)
	n.out[from] = append(n.out[from], id)
	n.out[to] = append(n.out[to], id+1)
	return id
}

// flowOn returns the units carried by forward arc id.
func (n *network) flowOn(id int) int {
	return n.arcs[id^1].residual
}

func (n *network) tail(id int) int {
	return n.arcs[id^1].head
}

// route sends up to demand units from source to sink and returns the units
// routed and their total cost.
func (n *network) route(source, sink, demand int) (int, int64) {
	nodes := len(n.out)
	potential := make([]int64, nodes)
	dist := make([]int64, nodes)
	via := make([]int, nodes)

	routed := 0
	var total int64
	for routed < demand {
		n.shortestPaths(source, potential, dist, via)
		if dist[sink] == unreachable {
			break
		}

		// Unreached nodes are capped at dist[sink] so reduced costs stay non-negative.
		for v := range nodes {
			potential[v] += min(dist[v], dist[sink])
		}

		push := demand - routed
		for v := sink; v != source; v = n.tail(via[v]) {
			push = min(push, n.arcs[via[v]].residual)
		}
		for v := sink; v != source; v = n.tail(via[v]) {
			n.arcs[via[v]].residual -= push
			n.arcs[via[v]^1].residual += push
		}

		routed += push
		total += int64(push) * potential[sink]
	}

	return routed, total
}

// shortestPaths fills dist with reduced-cost distances from source and via
// with the arc entering each reached node.
func (n *network) shortestPaths(source int, potential, dist []int64, via []int) {
	for v := range dist {
		dist[v] = unreachable
		via[v] = -1
	}
	dist[source] = 0

	q := &frontier{{node: source}}
	for q.Len() > 0 {
		top := heap.Pop(q).(label)
		if top.dist != dist[top.node] {
			continue
		}
		for _, id := range n.out[top.node] {
			a := n.arcs[id]
			if a.residual <= 0 {
				continue
			}
			nd := top.dist + a.cost + potential[top.node] - potential[a.head]
			if nd < dist[a.head] {
				dist[a.head] = nd
				via[a.head] = id
				heap.Push(q, label{dist: nd, node: a.head})
			}
		}
	}
}

// checkCostRange rejects networks whose path costs could reach unreachable.
func checkCostRange(maxArcCost float64, nodes int) error {
	if maxArcCost*float64(2*nodes) >= float64(unreachable) {
		return fmt.Errorf("%w: weighted arc cost %.0f over %d nodes exceeds the solver range", domain.ErrInvalidInstance, maxArcCost, nodes)
	}
	return nil
}

type label struct {
	dist int64
	node int
}

// frontier breaks distance ties by node so augmenting paths do not depend on
// heap insertion order.
type frontier []label

func (q frontier) Len() int { return len(q) }
func (q frontier) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].node < q[j].node
}
func (q frontier) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *frontier) Push(x any)   { *q = append(*q, x.(label)) }
func (q *frontier) Pop() any {
	old := *q
	last := old[len(old)-1]
	*q = old[:len(old)-1]
	return last
}
