package domain

import "time"

// Represents a single delivery request waiting for dispatch.
// Seq is assigned by the delivery system at creation, is unique and
// defines the dispatch order. Orders are immutable once created.
type Order struct {
	Seq          int64     `json:"seq"`
	Customer     string    `json:"customer"`
	Neighborhood string    `json:"neighborhood"`
	Street       string    `json:"street"`
	Destination  string    `json:"destination"`
	CreatedAt    time.Time `json:"created_at"`
}
