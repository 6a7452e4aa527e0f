package services

import (
	"delivery-dispatch-service/internal/domain"
	"delivery-dispatch-service/internal/graph"
	"math"
)

// Build a multi-stop route from depot using a greedy nearest-neighbor algorithm.
//
// At each step a single shortest-path tree is grown from the current position
// and the closest unvisited destination is appended to the route.
// It does not attempt global route optimization (e.g., TSP solvers).
// Destinations that cannot be reached stop the construction; they are
// returned in Route.Unreached and their orders stay pending.
func BuildNearestNeighborRoute(g *graph.Graph, depot string, pending []domain.Order) domain.Route {
	route := domain.Route{
		NodePath:  []string{depot},
		Customers: make(map[string][]string),
		Stops:     []domain.RouteStop{},
	}

	// Destinations keep first-appearance order, which is ascending sequence.
	destinations := make([]string, 0, len(pending))
	for _, o := range pending {
		if _, seen := route.Customers[o.Destination]; !seen {
			destinations = append(destinations, o.Destination)
		}
		route.Customers[o.Destination] = append(route.Customers[o.Destination], o.Customer)
	}

	remaining := make(map[string]struct{}, len(destinations))
	for _, d := range destinations {
		remaining[d] = struct{}{}
	}

	current := depot
	total := 0.0

	for len(remaining) > 0 {
		tree := g.ShortestPathTree(current)

		var best string
		minDist := math.Inf(1)

		// Select next stop by minimum distance (greedy step).
		// Strict comparison keeps the earliest destination on ties.
		for _, d := range destinations {
			if _, ok := remaining[d]; !ok {
				continue
			}
			if dist := tree.Distance(d); dist < minDist {
				minDist = dist
				best = d
			}
		}

		if best == "" {
			break
		}

		segment := tree.PathTo(best)
		route.NodePath = append(route.NodePath, segment[1:]...)
		total += minDist

		route.Stops = append(route.Stops, domain.RouteStop{
			Destination: best,
			PathIndex:   len(route.NodePath) - 1,
			Customers:   route.Customers[best],
		})

		delete(remaining, best)
		current = best
	}

	for _, d := range destinations {
		if _, ok := remaining[d]; ok {
			route.Unreached = append(route.Unreached, d)
		}
	}

	route.NamePath = make([]string, 0, len(route.NodePath))
	for _, id := range route.NodePath {
		route.NamePath = append(route.NamePath, g.Name(id))
	}
	route.TotalDistance = roundDistance(total)

	return route
}

func roundDistance(d float64) float64 {
	return math.Round(d*100) / 100
}
