package dto

import "time"

type CreateOrderRequest struct {
	Customer     string `json:"customer"`
	Neighborhood string `json:"neighborhood"`
	Street       string `json:"street"`
}

type OrderResponse struct {
	Seq             int64     `json:"seq"`
	Customer        string    `json:"customer"`
	Neighborhood    string    `json:"neighborhood"`
	Street          string    `json:"street"`
	Destination     string    `json:"destination"`
	DestinationName string    `json:"destination_name"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateOrderResponse struct {
	Order OrderResponse `json:"order"`
	Route RouteResponse `json:"route"`
}

type ListOrdersResponse struct {
	Count  int             `json:"count"`
	Orders []OrderResponse `json:"orders"`
}

type DispatchResponse struct {
	Sequence int64         `json:"sequence"`
	Order    OrderResponse `json:"order"`
	Pending  int           `json:"pending"`
}

// Returned by dispatch when the queue is empty.
type NothingPendingResponse struct {
	Dispatched *OrderResponse `json:"dispatched"`
	Message    string         `json:"message"`
}

type ErrorResponse struct {
	Error              string   `json:"error"`
	ValidNeighborhoods []string `json:"valid_neighborhoods,omitempty"`
	ValidStreets       []string `json:"valid_streets,omitempty"`
}
