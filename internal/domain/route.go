package domain

// Represents a delivery stop in a computed route.
// PathIndex points into Route.NodePath where the courier arrives at the stop.
type RouteStop struct {
	Destination string
	PathIndex   int
	Customers   []string
}

// Represents the multi-stop route from the depot through every reachable
// pending destination. A Route is derived data, recomputed on demand and
// never stored.
//
// NodePath may revisit junction nodes. NamePath is parallel to NodePath.
// Unreached lists destinations that had pending orders but no path from
// the position where the builder stopped.
type Route struct {
	NodePath      []string
	NamePath      []string
	TotalDistance float64
	Customers     map[string][]string
	Stops         []RouteStop
	Unreached     []string
}

// Report whether the route goes anywhere beyond its starting node.
func (r Route) Empty() bool { return len(r.NodePath) <= 1 }

// OrderCount is the number of pending orders the route was built from,
// reached or not.
func (r Route) OrderCount() int {
	n := 0
	for _, customers := range r.Customers {
		n += len(customers)
	}
	return n
}
