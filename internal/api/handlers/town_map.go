package handlers

import (
	"delivery-dispatch-service/internal/api/dto"
	"delivery-dispatch-service/internal/courier"
	"delivery-dispatch-service/internal/services"
	"net/http"
)

// MapHandler serves what a client needs to draw the town and the courier.
type MapHandler struct {
	System *services.DeliverySystem
	Marker interface{ Position() courier.Marker }
}

func (h *MapHandler) Map(w http.ResponseWriter, r *http.Request) {
	g := h.System.Graph()

	nodes := g.Nodes()
	res := dto.MapResponse{
		Depot: h.System.Depot(),
		Nodes: make([]dto.MapNodeResponse, 0, len(nodes)),
		Edges: make([]dto.MapEdgeResponse, 0),
	}
	for _, n := range nodes {
		mn := dto.MapNodeResponse{ID: n.ID, Name: n.Name}
		if n.Position != nil {
			mn.Position = &dto.PositionResponse{X: n.Position.X, Y: n.Position.Y}
		}
		res.Nodes = append(res.Nodes, mn)
	}

	// Roads with the same weight both ways are drawn once.
	drawn := make(map[[2]string]bool)
	for _, e := range g.Edges() {
		if drawn[[2]string{e.From, e.To}] {
			continue
		}
		me := dto.MapEdgeResponse{From: e.From, To: e.To, Weight: e.Weight}
		if back, ok := g.Weight(e.To, e.From); ok && back == e.Weight {
			drawn[[2]string{e.To, e.From}] = true
			me.Bidirectional = true
		}
		res.Edges = append(res.Edges, me)
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *MapHandler) Courier(w http.ResponseWriter, r *http.Request) {
	if h.Marker == nil {
		writeError(w, r, http.StatusNotFound, "courier animation disabled")
		return
	}
	writeJSON(w, r, http.StatusOK, h.Marker.Position())
}
