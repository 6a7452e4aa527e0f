package graph

import (
	"container/heap"
	"math"
)

// Tree is the result of a single-source Dijkstra run: the minimal distance
// from the source to every node and the predecessor on that path.
type Tree struct {
	Source string
	dist   map[string]float64
	prev   map[string]string
}

// Distance returns the distance from the tree source, or +Inf when id is
// unreachable or unknown.
func (t Tree) Distance(id string) float64 {
	d, ok := t.dist[id]
	if !ok {
		return math.Inf(1)
	}
	return d
}

func (t Tree) Reachable(id string) bool {
	return !math.IsInf(t.Distance(id), 1)
}

// Predecessor returns the node before id on its shortest path.
func (t Tree) Predecessor(id string) (string, bool) {
	p, ok := t.prev[id]
	return p, ok
}

// PathTo walks predecessor links back from id to the source and returns the
// nodes in travel order, or nil when id cannot be reached.
func (t Tree) PathTo(id string) []string {
	if !t.Reachable(id) {
		return nil
	}

	path := []string{id}
	for cur := id; cur != t.Source; {
		p, ok := t.prev[cur]
		if !ok {
			return nil
		}
		path = append(path, p)
		cur = p
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// ShortestPathTree runs Dijkstra from start over the current graph.
//
// Queue entries are ordered by distance and then by push order, and stale
// entries are skipped when popped. An unknown start yields a tree in which
// every node is unreachable.
func (g *Graph) ShortestPathTree(start string) Tree {
	t := Tree{
		Source: start,
		dist:   make(map[string]float64, len(g.order)),
		prev:   make(map[string]string, len(g.order)),
	}
	for _, id := range g.order {
		t.dist[id] = math.Inf(1)
	}
	if !g.HasNode(start) {
		return t
	}

	t.dist[start] = 0
	pq := &queue{}
	var seq int
	heap.Push(pq, &entry{node: start, dist: 0, seq: seq})

	for pq.Len() > 0 {
		e := heap.Pop(pq).(*entry)
		if e.dist > t.dist[e.node] {
			continue
		}

		for _, v := range g.neighbors[e.node] {
			nd := e.dist + g.adj[e.node][v]
			if nd < t.dist[v] {
				t.dist[v] = nd
				t.prev[v] = e.node
				seq++
				heap.Push(pq, &entry{node: v, dist: nd, seq: seq})
			}
		}
	}

	return t
}

// ShortestPath returns the node sequence from a to b and its total weight.
// Unreachable targets and unknown endpoints yield (nil, +Inf).
func (g *Graph) ShortestPath(a, b string) ([]string, float64) {
	if !g.HasNode(a) || !g.HasNode(b) {
		return nil, math.Inf(1)
	}
	t := g.ShortestPathTree(a)
	path := t.PathTo(b)
	if path == nil {
		return nil, math.Inf(1)
	}
	return path, t.Distance(b)
}

type entry struct {
	node string
	dist float64
	seq  int
}

// queue is a min-heap on (dist, seq).
type queue []*entry

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].seq < q[j].seq
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) { *q = append(*q, x.(*entry)) }

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return x
}
