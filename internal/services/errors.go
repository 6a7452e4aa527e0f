package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidNeighborhood = errors.New("invalid neighborhood")
	ErrInvalidStreet       = errors.New("invalid street")
	ErrEmptyCustomer       = errors.New("customer name must be non-empty")
)

// InvalidNeighborhoodError reports a neighborhood with no catalog entry.
type InvalidNeighborhoodError struct {
	Neighborhood string
	Valid        []string
}

func (e *InvalidNeighborhoodError) Error() string {
	return fmt.Sprintf("neighborhood %q is invalid; valid neighborhoods: %s",
		e.Neighborhood, strings.Join(e.Valid, ", "))
}

func (e *InvalidNeighborhoodError) Is(target error) bool { return target == ErrInvalidNeighborhood }

// InvalidStreetError reports a street that is not registered under an
// otherwise valid neighborhood. ValidStreets lists the alternatives.
type InvalidStreetError struct {
	Neighborhood string
	Street       string
	ValidStreets []string
}

func (e *InvalidStreetError) Error() string {
	return fmt.Sprintf("street %q not found in %s; valid streets: %s",
		e.Street, e.Neighborhood, strings.Join(e.ValidStreets, ", "))
}

func (e *InvalidStreetError) Is(target error) bool { return target == ErrInvalidStreet }
