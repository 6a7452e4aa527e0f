package handlers

import (
	"delivery-dispatch-service/internal/api/dto"
	"delivery-dispatch-service/internal/domain"
	"delivery-dispatch-service/internal/graph"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.ErrorResponse{Error: msg})
}

// decodeJSON reads exactly one JSON object from the body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

func toOrderResponse(g *graph.Graph, o domain.Order) dto.OrderResponse {
	return dto.OrderResponse{
		Seq:             o.Seq,
		Customer:        o.Customer,
		Neighborhood:    o.Neighborhood,
		Street:          o.Street,
		Destination:     o.Destination,
		DestinationName: g.Name(o.Destination),
		CreatedAt:       o.CreatedAt,
	}
}

func toRouteResponse(g *graph.Graph, rt domain.Route) dto.RouteResponse {
	res := dto.RouteResponse{
		NodePath:               rt.NodePath,
		NamePath:               rt.NamePath,
		TotalDistance:          rt.TotalDistance,
		Stops:                  make([]dto.RouteStopResponse, 0, len(rt.Stops)),
		CustomersByDestination: rt.Customers,
		Unreached:              rt.Unreached,
		Empty:                  rt.Empty(),
	}
	if res.CustomersByDestination == nil {
		res.CustomersByDestination = map[string][]string{}
	}
	for _, s := range rt.Stops {
		res.Stops = append(res.Stops, dto.RouteStopResponse{
			Destination: s.Destination,
			Name:        g.Name(s.Destination),
			PathIndex:   s.PathIndex,
			Customers:   s.Customers,
		})
	}
	return res
}
