package handlers

import (
	"delivery-dispatch-service/internal/api/dto"
	"delivery-dispatch-service/internal/domain"
	"delivery-dispatch-service/internal/ports"
	"delivery-dispatch-service/internal/services"
	"errors"
	"log"
	"net/http"
	"time"
)

// Courier is the part of the courier animator the handlers drive.
type Courier interface {
	Start(route domain.Route)
}

type OrderHandler struct {
	System    *services.DeliverySystem
	Publisher ports.EventPublisher
	Courier   Courier
}

// Create registers an order, recomputes the route and restarts the courier
// on it.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	order, route, err := h.System.CreateOrder(req.Customer, req.Neighborhood, req.Street)
	if err != nil {
		writeCreateError(w, r, err)
		return
	}

	h.publish(r, domain.EventOrderCreated, order, route.OrderCount())
	if h.Courier != nil {
		h.Courier.Start(route)
	}

	g := h.System.Graph()
	writeJSON(w, r, http.StatusCreated, dto.CreateOrderResponse{
		Order: toOrderResponse(g, order),
		Route: toRouteResponse(g, route),
	})
}

func writeCreateError(w http.ResponseWriter, r *http.Request, err error) {
	var nbErr *services.InvalidNeighborhoodError
	var stErr *services.InvalidStreetError

	switch {
	case errors.As(err, &nbErr):
		writeJSON(w, r, http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:              nbErr.Error(),
			ValidNeighborhoods: nbErr.Valid,
		})
	case errors.As(err, &stErr):
		writeJSON(w, r, http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:        stErr.Error(),
			ValidStreets: stErr.ValidStreets,
		})
	case errors.Is(err, services.ErrEmptyCustomer):
		writeError(w, r, http.StatusUnprocessableEntity, services.ErrEmptyCustomer.Error())
	default:
		log.Printf("create order failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	pending := h.System.ListPending()
	g := h.System.Graph()

	res := dto.ListOrdersResponse{
		Count:  len(pending),
		Orders: make([]dto.OrderResponse, 0, len(pending)),
	}
	for _, o := range pending {
		res.Orders = append(res.Orders, toOrderResponse(g, o))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Dispatch hands the earliest pending order to the courier. The route is
// not recomputed.
func (h *OrderHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	order, remaining, ok := h.System.TakeNext()
	if !ok {
		writeJSON(w, r, http.StatusOK, dto.NothingPendingResponse{Message: "nothing pending"})
		return
	}

	h.publish(r, domain.EventOrderDispatched, order, remaining)

	writeJSON(w, r, http.StatusOK, dto.DispatchResponse{
		Sequence: order.Seq,
		Order:    toOrderResponse(h.System.Graph(), order),
		Pending:  remaining,
	})
}

// Publishing is best effort; the order change has already happened.
func (h *OrderHandler) publish(r *http.Request, eventType string, order domain.Order, pending int) {
	if h.Publisher == nil {
		return
	}

	event := domain.OrderEvent{
		Type:       eventType,
		Order:      order,
		Pending:    pending,
		OccurredAt: time.Now().UTC(),
	}
	if err := h.Publisher.Publish(r.Context(), event); err != nil {
		log.Printf("level=warn op=events.publish type=%s seq=%d err=%v", eventType, order.Seq, err)
	}
}
