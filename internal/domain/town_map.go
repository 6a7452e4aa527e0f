package domain

// Static configuration a delivery system is built from: the depot, the
// road graph and the neighborhood/street catalog.
type TownMap struct {
	Depot         string
	Nodes         []Node
	Edges         []Edge
	Neighborhoods []Neighborhood
}
