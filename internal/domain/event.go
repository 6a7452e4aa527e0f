package domain

import "time"

const (
	EventOrderCreated    = "order.created"
	EventOrderDispatched = "order.dispatched"
)

// Notification emitted when an order enters or leaves the pending store.
type OrderEvent struct {
	Type       string    `json:"type"`
	Order      Order     `json:"order"`
	Pending    int       `json:"pending"`
	OccurredAt time.Time `json:"occurred_at"`
}
