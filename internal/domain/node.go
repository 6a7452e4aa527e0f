package domain

// Canvas coordinates used by renderers to place a node on the town drawing.
type Position struct {
	X float64
	Y float64
}

// Represents a named point of the town map: the depot, a junction or a
// street that can receive deliveries. Nodes are created once when the map
// is loaded and never change afterwards. Position is nil for nodes that
// have no place on the drawing.
type Node struct {
	ID       string
	Name     string
	Position *Position
}

// Configuration record for a road between two nodes.
// Bidirectional edges are written in both directions with the same weight.
type Edge struct {
	From          string
	To            string
	Weight        float64
	Bidirectional bool
}
