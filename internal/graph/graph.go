// Package graph stores the town road network and answers shortest-path
// queries over it.
package graph

import (
	"delivery-dispatch-service/internal/domain"
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownNode    = errors.New("unknown node")
	ErrNegativeWeight = errors.New("negative edge weight")
)

// Graph is a weighted road graph with map-of-maps adjacency.
// Writing the same direction twice keeps the last weight.
//
// Node and neighbor iteration follows first-insertion order so that
// shortest-path results are deterministic.
type Graph struct {
	nodes     map[string]domain.Node
	order     []string
	adj       map[string]map[string]float64
	neighbors map[string][]string
}

func New() *Graph {
	return &Graph{
		nodes:     make(map[string]domain.Node),
		adj:       make(map[string]map[string]float64),
		neighbors: make(map[string][]string),
	}
}

// AddNode registers a node, overwriting the display name if the id exists.
func (g *Graph) AddNode(id, name string) {
	n, ok := g.nodes[id]
	if !ok {
		g.order = append(g.order, id)
	}
	n.ID = id
	n.Name = name
	g.nodes[id] = n
	if _, ok := g.adj[id]; !ok {
		g.adj[id] = make(map[string]float64)
	}
}

// AddNodeAt registers a node together with its drawing position.
func (g *Graph) AddNodeAt(id, name string, pos *domain.Position) {
	g.AddNode(id, name)
	n := g.nodes[id]
	n.Position = pos
	g.nodes[id] = n
}

// AddEdge writes a from->to weight, and to->from too when bidirectional.
// Edges that reference an unregistered node are not written; the returned
// error wraps ErrUnknownNode and construction may continue.
func (g *Graph) AddEdge(from, to string, weight float64, bidirectional bool) error {
	_, okFrom := g.nodes[from]
	_, okTo := g.nodes[to]
	if !okFrom || !okTo {
		return fmt.Errorf("add edge %q -> %q: %w", from, to, ErrUnknownNode)
	}
	if weight < 0 || math.IsNaN(weight) {
		return fmt.Errorf("add edge %q -> %q weight=%v: %w", from, to, weight, ErrNegativeWeight)
	}

	g.set(from, to, weight)
	if bidirectional {
		g.set(to, from, weight)
	}
	return nil
}

func (g *Graph) set(from, to string, weight float64) {
	if _, ok := g.adj[from][to]; !ok {
		g.neighbors[from] = append(g.neighbors[from], to)
	}
	g.adj[from][to] = weight
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the registered node with the given id.
func (g *Graph) Node(id string) (domain.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Name returns the display name of a node, falling back to its id.
func (g *Graph) Name(id string) string {
	if n, ok := g.nodes[id]; ok && n.Name != "" {
		return n.Name
	}
	return id
}

// Nodes returns all nodes in registration order.
func (g *Graph) Nodes() []domain.Node {
	out := make([]domain.Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Weight returns the weight of the directed edge from->to.
func (g *Graph) Weight(from, to string) (float64, bool) {
	w, ok := g.adj[from][to]
	return w, ok
}

// Neighbors returns the targets of the outgoing edges of id in insertion order.
func (g *Graph) Neighbors(id string) []string {
	ns := g.neighbors[id]
	out := make([]string, len(ns))
	copy(out, ns)
	return out
}

// Edges returns every directed edge currently in effect.
// A bidirectional road shows up once per direction.
func (g *Graph) Edges() []domain.Edge {
	var out []domain.Edge
	for _, from := range g.order {
		for _, to := range g.neighbors[from] {
			out = append(out, domain.Edge{From: from, To: to, Weight: g.adj[from][to]})
		}
	}
	return out
}
