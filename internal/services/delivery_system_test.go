package services

import (
	"bytes"
	"delivery-dispatch-service/internal/domain"
	"errors"
	"log"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
)

func testTownMap() *domain.TownMap {
	return &domain.TownMap{
		Depot: "DEPOT",
		Nodes: []domain.Node{
			{ID: "DEPOT", Name: "Depot"},
			{ID: "JUNCTION", Name: "Junction"},
			{ID: "C_HOPE", Name: "Centro - Hope St"},
			{ID: "C_WATER", Name: "Centro - Water St"},
			{ID: "N_FLOWERS", Name: "North - Flowers St"},
			{ID: "N_SUN", Name: "North - Sun St"},
			{ID: "ISLAND", Name: "Island - Pier"},
		},
		Edges: []domain.Edge{
			{From: "DEPOT", To: "C_HOPE", Weight: 1, Bidirectional: true},
			{From: "DEPOT", To: "C_WATER", Weight: 2, Bidirectional: true},
			{From: "DEPOT", To: "JUNCTION", Weight: 5, Bidirectional: true},
			{From: "JUNCTION", To: "N_SUN", Weight: 3, Bidirectional: true},
			{From: "N_SUN", To: "N_FLOWERS", Weight: 4, Bidirectional: true},
		},
		Neighborhoods: []domain.Neighborhood{
			{Name: "CENTRO", Streets: []domain.Street{
				{Name: "Hope", Node: "C_HOPE"},
				{Name: "Water", Node: "C_WATER"},
			}},
			{Name: "NORTH", Streets: []domain.Street{
				{Name: "Flowers", Node: "N_FLOWERS"},
				{Name: "Sun", Node: "N_SUN"},
			}},
			{Name: "ISLAND", Streets: []domain.Street{
				{Name: "Pier", Node: "ISLAND"},
			}},
		},
	}
}

func newTestSystem(t *testing.T, tm *domain.TownMap) (*DeliverySystem, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	clock := time.Date(2026, 1, 1, 18, 0, 0, 0, time.UTC)
	sys, err := NewDeliverySystem(tm,
		WithLogger(log.New(&buf, "", 0)),
		WithClock(func() time.Time { return clock }),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sys, &buf
}

func TestDeliverySystemListings(t *testing.T) {
	sys, _ := newTestSystem(t, testTownMap())

	if got, want := sys.ListNeighborhoods(), []string{"CENTRO", "NORTH", "ISLAND"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("neighborhoods = %v, want %v", got, want)
	}
	if got, want := sys.ListStreets("  north "), []string{"Flowers", "Sun"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("streets = %v, want %v", got, want)
	}
	if got := sys.ListStreets("NOPE"); got == nil || len(got) != 0 {
		t.Fatalf("unknown neighborhood streets = %#v, want empty", got)
	}
}

func TestDeliverySystemCreateOrderInvalidNeighborhood(t *testing.T) {
	sys, _ := newTestSystem(t, testTownMap())

	_, _, err := sys.CreateOrder("X", "NOPE", "Y")
	if !errors.Is(err, ErrInvalidNeighborhood) {
		t.Fatalf("got %v, want ErrInvalidNeighborhood", err)
	}
	var nerr *InvalidNeighborhoodError
	if !errors.As(err, &nerr) || nerr.Neighborhood != "NOPE" {
		t.Fatalf("expected InvalidNeighborhoodError for NOPE, got %v", err)
	}
	if len(sys.ListPending()) != 0 {
		t.Fatalf("failed order must not be stored")
	}
}

func TestDeliverySystemCreateOrderInvalidStreet(t *testing.T) {
	sys, _ := newTestSystem(t, testTownMap())

	_, _, err := sys.CreateOrder("X", "CENTRO", "NOPE")
	if !errors.Is(err, ErrInvalidStreet) {
		t.Fatalf("got %v, want ErrInvalidStreet", err)
	}
	var serr *InvalidStreetError
	if !errors.As(err, &serr) {
		t.Fatalf("expected InvalidStreetError, got %T", err)
	}
	if want := []string{"Hope", "Water"}; !reflect.DeepEqual(serr.ValidStreets, want) {
		t.Fatalf("valid streets = %v, want %v", serr.ValidStreets, want)
	}
	if !strings.Contains(err.Error(), "Hope, Water") {
		t.Fatalf("error message should list valid streets: %q", err.Error())
	}
}

func TestDeliverySystemCreateOrderEmptyCustomer(t *testing.T) {
	sys, _ := newTestSystem(t, testTownMap())

	if _, _, err := sys.CreateOrder("   ", "CENTRO", "Hope"); !errors.Is(err, ErrEmptyCustomer) {
		t.Fatalf("got %v, want ErrEmptyCustomer", err)
	}
}

func TestDeliverySystemCreateOrderNormalizesInput(t *testing.T) {
	sys, _ := newTestSystem(t, testTownMap())

	order, route, err := sys.CreateOrder("Ana", " centro ", "hope  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Seq != 1 {
		t.Fatalf("seq = %d, want 1", order.Seq)
	}
	if order.Destination != "C_HOPE" {
		t.Fatalf("destination = %q, want C_HOPE", order.Destination)
	}
	if order.Neighborhood != " centro " || order.Street != "hope  " {
		t.Fatalf("order should keep the raw choice, got %q/%q", order.Neighborhood, order.Street)
	}
	if !order.CreatedAt.Equal(time.Date(2026, 1, 1, 18, 0, 0, 0, time.UTC)) {
		t.Fatalf("created at = %v, want injected clock", order.CreatedAt)
	}
	if want := []string{"DEPOT", "C_HOPE"}; !reflect.DeepEqual(route.NodePath, want) {
		t.Fatalf("route = %v, want %v", route.NodePath, want)
	}
}

func TestDeliverySystemSequenceNeverReused(t *testing.T) {
	sys, _ := newTestSystem(t, testTownMap())

	o1, _, _ := sys.CreateOrder("A", "CENTRO", "Hope")
	if _, _, err := sys.CreateOrder("B", "CENTRO", "Nope"); err == nil {
		t.Fatalf("expected error")
	}
	o2, _, _ := sys.CreateOrder("C", "NORTH", "Sun")
	sys.DispatchNext()
	sys.DispatchNext()
	o3, _, _ := sys.CreateOrder("D", "NORTH", "Sun")

	if o1.Seq != 1 || o2.Seq != 2 || o3.Seq != 3 {
		t.Fatalf("seqs = %d,%d,%d, want 1,2,3", o1.Seq, o2.Seq, o3.Seq)
	}
}

func TestDeliverySystemDispatchFIFO(t *testing.T) {
	sys, _ := newTestSystem(t, testTownMap())

	choices := [][2]string{
		{"NORTH", "Flowers"}, {"CENTRO", "Hope"}, {"NORTH", "Sun"},
		{"CENTRO", "Water"}, {"CENTRO", "Hope"},
	}
	for i, c := range choices {
		if _, _, err := sys.CreateOrder("customer", c[0], c[1]); err != nil {
			t.Fatalf("order %d: unexpected error: %v", i, err)
		}
		// Route recomputation must not disturb dispatch order.
		sys.ComputeRoute()
	}

	for want := int64(1); want <= int64(len(choices)); want++ {
		o, ok := sys.DispatchNext()
		if !ok {
			t.Fatalf("dispatch %d: nothing pending", want)
		}
		if o.Seq != want {
			t.Fatalf("dispatched seq %d, want %d", o.Seq, want)
		}
		sys.ComputeRoute()
	}
}

func TestDeliverySystemTakeNextReportsRemaining(t *testing.T) {
	sys, _ := newTestSystem(t, testTownMap())

	sys.CreateOrder("A", "CENTRO", "Hope")
	_, route, _ := sys.CreateOrder("B", "ISLAND", "Pier")
	if n := route.OrderCount(); n != 2 {
		t.Fatalf("route order count = %d, want 2", n)
	}

	var wg sync.WaitGroup
	remaining := make(chan int, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, n, ok := sys.TakeNext(); ok {
				remaining <- n
			}
		}()
	}
	wg.Wait()
	close(remaining)

	seen := map[int]bool{}
	for n := range remaining {
		seen[n] = true
	}
	if !seen[0] || !seen[1] || len(seen) != 2 {
		t.Fatalf("remaining counts = %v, want {0, 1}", seen)
	}
	if _, n, ok := sys.TakeNext(); ok || n != 0 {
		t.Fatalf("take on empty = (%d, %v), want (0, false)", n, ok)
	}
}

func TestDeliverySystemDispatchEmpty(t *testing.T) {
	sys, _ := newTestSystem(t, testTownMap())

	if _, ok := sys.DispatchNext(); ok {
		t.Fatalf("expected nothing pending")
	}
	if n := len(sys.ListPending()); n != 0 {
		t.Fatalf("pending = %d, want 0", n)
	}
}

func TestDeliverySystemEmptyRoute(t *testing.T) {
	sys, _ := newTestSystem(t, testTownMap())

	route := sys.ComputeRoute()
	if len(route.NodePath) > 1 {
		t.Fatalf("path = %v, want at most the depot", route.NodePath)
	}
	if route.TotalDistance != 0 {
		t.Fatalf("distance = %.2f, want 0.00", route.TotalDistance)
	}
	if !route.Empty() {
		t.Fatalf("route should be empty")
	}
}

func TestDeliverySystemComputeRouteIdempotent(t *testing.T) {
	sys, _ := newTestSystem(t, testTownMap())
	for _, c := range [][2]string{{"NORTH", "Flowers"}, {"CENTRO", "Water"}, {"CENTRO", "Hope"}} {
		if _, _, err := sys.CreateOrder("c", c[0], c[1]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	first := sys.ComputeRoute()
	second := sys.ComputeRoute()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("routes differ:\n%+v\n%+v", first, second)
	}

	want := []string{"DEPOT", "C_HOPE", "DEPOT", "C_WATER", "DEPOT", "JUNCTION", "N_SUN", "N_FLOWERS"}
	if !reflect.DeepEqual(first.NodePath, want) {
		t.Fatalf("path = %v, want %v", first.NodePath, want)
	}
	if first.TotalDistance != 18 {
		t.Fatalf("distance = %.2f, want 18.00", first.TotalDistance)
	}
}

func TestDeliverySystemUnreachableDestinationStaysPending(t *testing.T) {
	sys, logs := newTestSystem(t, testTownMap())

	if _, _, err := sys.CreateOrder("Lost", "ISLAND", "Pier"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, route, err := sys.CreateOrder("Ana", "CENTRO", "Hope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"DEPOT", "C_HOPE"}; !reflect.DeepEqual(route.NodePath, want) {
		t.Fatalf("path = %v, want %v", route.NodePath, want)
	}
	if want := []string{"ISLAND"}; !reflect.DeepEqual(route.Unreached, want) {
		t.Fatalf("unreached = %v, want %v", route.Unreached, want)
	}
	if n := len(sys.ListPending()); n != 2 {
		t.Fatalf("pending = %d, want 2", n)
	}
	if !strings.Contains(logs.String(), "unreached=ISLAND") {
		t.Fatalf("expected unreached warning in logs, got %q", logs.String())
	}
}

func TestNewDeliverySystemWarnsOnUnknownEdgeNode(t *testing.T) {
	tm := testTownMap()
	tm.Edges = append(tm.Edges, domain.Edge{From: "DEPOT", To: "GHOST", Weight: 1, Bidirectional: true})

	sys, logs := newTestSystem(t, tm)
	if !strings.Contains(logs.String(), "op=graph.add_edge") {
		t.Fatalf("expected graph construction warning, got %q", logs.String())
	}
	if sys.Graph().HasNode("GHOST") {
		t.Fatalf("unknown node must not be created by an edge")
	}
}

func TestNewDeliverySystemRejectsBadMaps(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.TownMap)
		want   error
	}{
		{"unknown depot", func(tm *domain.TownMap) { tm.Depot = "NOWHERE" }, ErrUnknownDepot},
		{"duplicate edge", func(tm *domain.TownMap) {
			tm.Edges = append(tm.Edges, domain.Edge{From: "C_HOPE", To: "DEPOT", Weight: 9, Bidirectional: true})
		}, ErrDuplicateEdge},
		{"street without node", func(tm *domain.TownMap) {
			tm.Neighborhoods[0].Streets = append(tm.Neighborhoods[0].Streets, domain.Street{Name: "Ghost", Node: "GHOST"})
		}, ErrUnknownStreetNode},
		{"duplicate street", func(tm *domain.TownMap) {
			tm.Neighborhoods[1].Streets = append(tm.Neighborhoods[1].Streets, domain.Street{Name: " sun ", Node: "N_FLOWERS"})
		}, ErrDuplicateStreet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := testTownMap()
			tt.mutate(tm)
			if _, err := NewDeliverySystem(tm); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}
