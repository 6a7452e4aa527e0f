package dto

type NeighborhoodsResponse struct {
	Neighborhoods []string `json:"neighborhoods"`
}

type StreetsResponse struct {
	Neighborhood string   `json:"neighborhood"`
	Streets      []string `json:"streets"`
}

type PositionResponse struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type MapNodeResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Position *PositionResponse `json:"position,omitempty"`
}

type MapEdgeResponse struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	Weight        float64 `json:"weight"`
	Bidirectional bool    `json:"bidirectional"`
}

type MapResponse struct {
	Depot string            `json:"depot"`
	Nodes []MapNodeResponse `json:"nodes"`
	Edges []MapEdgeResponse `json:"edges"`
}
