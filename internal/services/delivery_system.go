package services

import (
	"delivery-dispatch-service/internal/domain"
	"delivery-dispatch-service/internal/graph"
	"delivery-dispatch-service/internal/orders"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// DeliverySystem owns the town graph, the pending orders and the sequence
// counter of one depot. It is the entry point the presentation layer calls.
//
// Methods are safe for concurrent use; calls are serialized.
type DeliverySystem struct {
	mu      sync.Mutex
	graph   *graph.Graph
	catalog *domain.Catalog
	pending *orders.PendingStore
	depot   string
	nextSeq int64
	now     func() time.Time
	logger  *log.Logger
}

type Option func(*DeliverySystem)

// WithClock sets the time source used to stamp new orders.
func WithClock(now func() time.Time) Option {
	return func(s *DeliverySystem) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *DeliverySystem) { s.logger = l }
}

func NewDeliverySystem(tm *domain.TownMap, opts ...Option) (*DeliverySystem, error) {
	if err := ValidateTownMap(tm); err != nil {
		return nil, fmt.Errorf("new delivery system: %w", err)
	}

	s := &DeliverySystem{
		catalog: domain.NewCatalog(tm.Neighborhoods),
		pending: orders.NewPendingStore(),
		depot:   tm.Depot,
		nextSeq: 1,
		now:     time.Now,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.graph = BuildGraph(tm, s.logger)
	return s, nil
}

func (s *DeliverySystem) Depot() string { return s.depot }

// Graph exposes the road graph for rendering. It must not be mutated.
func (s *DeliverySystem) Graph() *graph.Graph { return s.graph }

func (s *DeliverySystem) Catalog() *domain.Catalog { return s.catalog }

func (s *DeliverySystem) ListNeighborhoods() []string {
	return s.catalog.Neighborhoods()
}

// ListStreets returns the streets of a neighborhood, matched case-insensitively.
// Unknown neighborhoods yield an empty list.
func (s *DeliverySystem) ListStreets(neighborhood string) []string {
	streets, ok := s.catalog.Streets(neighborhood)
	if !ok {
		return []string{}
	}
	return streets
}

// CreateOrder validates the neighborhood/street choice, registers a new
// pending order and returns it with the recomputed route.
func (s *DeliverySystem) CreateOrder(customer, neighborhood, street string) (domain.Order, domain.Route, error) {
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return domain.Order{}, domain.Route{}, fmt.Errorf("create order: %w", ErrEmptyCustomer)
	}

	node, hasNeighborhood, ok := s.catalog.Resolve(neighborhood, street)
	if !ok {
		if !hasNeighborhood {
			return domain.Order{}, domain.Route{}, fmt.Errorf("create order: %w", &InvalidNeighborhoodError{
				Neighborhood: neighborhood,
				Valid:        s.catalog.Neighborhoods(),
			})
		}
		valid, _ := s.catalog.Streets(neighborhood)
		return domain.Order{}, domain.Route{}, fmt.Errorf("create order: %w", &InvalidStreetError{
			Neighborhood: neighborhood,
			Street:       street,
			ValidStreets: valid,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order := domain.Order{
		Seq:          s.nextSeq,
		Customer:     customer,
		Neighborhood: neighborhood,
		Street:       street,
		Destination:  node,
		CreatedAt:    s.now(),
	}
	if err := s.pending.Insert(order.Seq, order); err != nil {
		return domain.Order{}, domain.Route{}, fmt.Errorf("create order: %w", err)
	}
	s.nextSeq++

	return order, s.computeRouteLocked(), nil
}

// DispatchNext removes the earliest pending order. ok is false when there
// is nothing pending. The route is not recomputed.
func (s *DeliverySystem) DispatchNext() (domain.Order, bool) {
	order, _, ok := s.TakeNext()
	return order, ok
}

// TakeNext is DispatchNext that also reports how many orders were still
// pending right after the removal.
func (s *DeliverySystem) TakeNext() (order domain.Order, remaining int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, order, ok = s.pending.RemoveEarliest()
	return order, s.pending.Len(), ok
}

// ComputeRoute builds the nearest-neighbor route over all pending destinations.
func (s *DeliverySystem) ComputeRoute() domain.Route {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.computeRouteLocked()
}

func (s *DeliverySystem) computeRouteLocked() domain.Route {
	route := BuildNearestNeighborRoute(s.graph, s.depot, s.pending.Snapshot())
	if len(route.Unreached) > 0 {
		s.logger.Printf("level=warn op=route.compute unreached=%s", strings.Join(route.Unreached, ","))
	}
	return route
}

// ListPending returns pending orders in ascending sequence order.
func (s *DeliverySystem) ListPending() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pending.Snapshot()
}

func (s *DeliverySystem) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pending.Len()
}
