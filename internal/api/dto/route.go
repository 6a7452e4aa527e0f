package dto

type RouteStopResponse struct {
	Destination string   `json:"destination"`
	Name        string   `json:"name"`
	PathIndex   int      `json:"path_index"`
	Customers   []string `json:"customers"`
}

// CustomersByDestination covers every pending destination, including the
// unreached ones that have no stop.
type RouteResponse struct {
	NodePath               []string            `json:"node_path"`
	NamePath               []string            `json:"name_path"`
	TotalDistance          float64             `json:"total_distance"`
	Stops                  []RouteStopResponse `json:"stops"`
	CustomersByDestination map[string][]string `json:"customers_by_destination"`
	Unreached              []string            `json:"unreached,omitempty"`
	Empty                  bool                `json:"empty"`
}
