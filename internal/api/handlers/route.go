package handlers

import (
	"delivery-dispatch-service/internal/domain"
	"delivery-dispatch-service/internal/platform/obs"
	"delivery-dispatch-service/internal/services"
	"net/http"
)

type RouteHandler struct {
	System  *services.DeliverySystem
	Courier Courier
}

func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	route := h.compute(r)
	writeJSON(w, r, http.StatusOK, toRouteResponse(h.System.Graph(), route))
}

// Recompute rebuilds the route and restarts the courier from the depot.
func (h *RouteHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	route := h.compute(r)
	if h.Courier != nil {
		h.Courier.Start(route)
	}
	writeJSON(w, r, http.StatusOK, toRouteResponse(h.System.Graph(), route))
}

func (h *RouteHandler) compute(r *http.Request) domain.Route {
	done := obs.Time(r.Context(), "route.compute")
	defer done(nil)

	return h.System.ComputeRoute()
}
