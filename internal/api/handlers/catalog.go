package handlers

import (
	"delivery-dispatch-service/internal/api/dto"
	"delivery-dispatch-service/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CatalogHandler exposes the neighborhood and street choices offered to customers.
type CatalogHandler struct {
	System *services.DeliverySystem
}

func (h *CatalogHandler) Neighborhoods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.NeighborhoodsResponse{
		Neighborhoods: h.System.ListNeighborhoods(),
	})
}

// Streets lists the streets of a neighborhood. Unknown neighborhoods yield
// an empty list rather than an error.
func (h *CatalogHandler) Streets(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	writeJSON(w, r, http.StatusOK, dto.StreetsResponse{
		Neighborhood: name,
		Streets:      h.System.ListStreets(name),
	})
}
