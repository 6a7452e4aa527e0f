package api

import (
	"bytes"
	"context"
	"delivery-dispatch-service/internal/adapters/mapfile"
	"delivery-dispatch-service/internal/api/dto"
	"delivery-dispatch-service/internal/courier"
	"delivery-dispatch-service/internal/domain"
	"delivery-dispatch-service/internal/services"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type testServer struct {
	handler   http.Handler
	publisher *recordingPublisher
	courier   *courier.Animator
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tm, err := mapfile.Default()
	require.NoError(t, err)
	return newTestServerWithMap(t, tm)
}

func newTestServerWithMap(t *testing.T, tm *domain.TownMap) *testServer {
	t.Helper()

	quiet := log.New(io.Discard, "", 0)
	sys, err := services.NewDeliverySystem(tm, services.WithLogger(quiet))
	require.NoError(t, err)

	pub := &recordingPublisher{}
	anim := courier.NewAnimator(sys.Graph(), sys.Depot(), time.Hour, courier.DefaultStep, quiet)
	t.Cleanup(anim.Stop)

	return &testServer{
		handler:   NewRouter(Deps{System: sys, Publisher: pub, Courier: anim}),
		publisher: pub,
		courier:   anim,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestCatalogEndpoints(t *testing.T) {
	s := newTestServer(t)

	nbs := decode[dto.NeighborhoodsResponse](t, s.do(t, http.MethodGet, "/neighborhoods", ""))
	assert.Equal(t, []string{"CENTRO", "SJ", "SM", "SP", "SPD"}, nbs.Neighborhoods)

	streets := decode[dto.StreetsResponse](t, s.do(t, http.MethodGet, "/neighborhoods/sm/streets", ""))
	assert.Equal(t, []string{"Nova da Vitória", "Vitória"}, streets.Streets)

	rec := s.do(t, http.MethodGet, "/neighborhoods/NOWHERE/streets", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"neighborhood":"NOWHERE","streets":[]}`, rec.Body.String())
}

func TestCreateOrderAndRoute(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/orders", `{"customer":"Ana","neighborhood":"centro","street":"águas"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[dto.CreateOrderResponse](t, rec)
	assert.Equal(t, int64(1), created.Order.Seq)
	assert.Equal(t, "CENTRO_R_AGUAS", created.Order.Destination)
	assert.Equal(t, "centro", created.Order.Neighborhood)
	assert.Equal(t, []string{"CENTRO_DEPOSITO", "CENTRO_R_AGUAS"}, created.Route.NodePath)
	assert.Equal(t, 1.0, created.Route.TotalDistance)
	assert.True(t, s.courier.Position().Moving)

	rec = s.do(t, http.MethodPost, "/orders", `{"customer":"Bia","neighborhood":"SJ","street":"Flores"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	route := decode[dto.RouteResponse](t, s.do(t, http.MethodGet, "/route", ""))
	assert.Equal(t, []string{
		"CENTRO_DEPOSITO", "CENTRO_R_AGUAS",
		"CENTRO_DEPOSITO", "JUNCAO_CENTRO_LESTE", "SJ_R_SOL", "SJ_R_FLORES",
	}, route.NodePath)
	assert.Equal(t, 14.0, route.TotalDistance)
	require.Len(t, route.Stops, 2)
	assert.Equal(t, 5, route.Stops[1].PathIndex)
	assert.Equal(t, "SJ - R. das Flores", route.Stops[1].Name)
	assert.False(t, route.Empty)

	list := decode[dto.ListOrdersResponse](t, s.do(t, http.MethodGet, "/orders", ""))
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, "Ana", list.Orders[0].Customer)

	require.Len(t, s.publisher.events, 2)
	assert.Equal(t, domain.EventOrderCreated, s.publisher.events[1].Type)
	assert.Equal(t, 2, s.publisher.events[1].Pending)
}

func TestRouteListsCustomersOfUnreachedDestinations(t *testing.T) {
	tm, err := mapfile.Default()
	require.NoError(t, err)
	tm.Nodes = append(tm.Nodes, domain.Node{ID: "ILHA_CAIS", Name: "Ilha - Cais"})
	tm.Neighborhoods = append(tm.Neighborhoods, domain.Neighborhood{
		Name:    "ILHA",
		Streets: []domain.Street{{Name: "Cais", Node: "ILHA_CAIS"}},
	})
	s := newTestServerWithMap(t, tm)

	s.do(t, http.MethodPost, "/orders", `{"customer":"Ana","neighborhood":"SP","street":"Ipê"}`)
	rec := s.do(t, http.MethodPost, "/orders", `{"customer":"Zé","neighborhood":"ILHA","street":"Cais"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	route := decode[dto.RouteResponse](t, s.do(t, http.MethodGet, "/route", ""))
	assert.Equal(t, []string{"ILHA_CAIS"}, route.Unreached)
	require.Len(t, route.Stops, 1)
	assert.Equal(t, []string{"Zé"}, route.CustomersByDestination["ILHA_CAIS"])
	assert.Equal(t, []string{"Ana"}, route.CustomersByDestination[route.Stops[0].Destination])
}

func TestCreateOrderErrors(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name   string
		body   string
		status int
		check  func(t *testing.T, res dto.ErrorResponse)
	}{
		{
			name:   "bad json",
			body:   `{"customer":`,
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown field",
			body:   `{"customer":"a","neighborhood":"SJ","street":"Sol","tip":1}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "invalid neighborhood",
			body:   `{"customer":"a","neighborhood":"Atlantis","street":"Sol"}`,
			status: http.StatusUnprocessableEntity,
			check: func(t *testing.T, res dto.ErrorResponse) {
				assert.Contains(t, res.ValidNeighborhoods, "SPD")
			},
		},
		{
			name:   "invalid street",
			body:   `{"customer":"a","neighborhood":"SJ","street":"Azul"}`,
			status: http.StatusUnprocessableEntity,
			check: func(t *testing.T, res dto.ErrorResponse) {
				assert.Equal(t, []string{"Flores", "Sol"}, res.ValidStreets)
			},
		},
		{
			name:   "empty customer",
			body:   `{"customer":"  ","neighborhood":"SJ","street":"Sol"}`,
			status: http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/orders", tc.body)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())

			res := decode[dto.ErrorResponse](t, rec)
			assert.NotEmpty(t, res.Error)
			if tc.check != nil {
				tc.check(t, res)
			}
		})
	}

	assert.Empty(t, s.publisher.events)
	list := decode[dto.ListOrdersResponse](t, s.do(t, http.MethodGet, "/orders", ""))
	assert.Zero(t, list.Count)
}

func TestDispatch(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/orders/dispatch", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"dispatched":null,"message":"nothing pending"}`, rec.Body.String())

	s.do(t, http.MethodPost, "/orders", `{"customer":"Ana","neighborhood":"SP","street":"Ipê"}`)
	s.do(t, http.MethodPost, "/orders", `{"customer":"Bia","neighborhood":"SP","street":"Azul"}`)

	res := decode[dto.DispatchResponse](t, s.do(t, http.MethodPost, "/orders/dispatch", ""))
	assert.Equal(t, int64(1), res.Sequence)
	assert.Equal(t, "Ana", res.Order.Customer)
	assert.Equal(t, 1, res.Pending)

	last := s.publisher.events[len(s.publisher.events)-1]
	assert.Equal(t, domain.EventOrderDispatched, last.Type)
	assert.Equal(t, int64(1), last.Order.Seq)
	assert.Equal(t, res.Pending, last.Pending)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	s := newTestServer(t)
	s.publisher.err = errors.New("broker down")

	rec := s.do(t, http.MethodPost, "/orders", `{"customer":"Ana","neighborhood":"SJ","street":"Sol"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRecomputeRestartsCourier(t *testing.T) {
	s := newTestServer(t)

	route := decode[dto.RouteResponse](t, s.do(t, http.MethodPost, "/route/recompute", ""))
	assert.True(t, route.Empty)
	assert.Equal(t, []string{"CENTRO_DEPOSITO"}, route.NodePath)

	marker := decode[courier.Marker](t, s.do(t, http.MethodGet, "/courier", ""))
	assert.False(t, marker.Moving)
	assert.Equal(t, 350.0, marker.X)
	assert.Equal(t, 250.0, marker.Y)

	s.do(t, http.MethodPost, "/orders", `{"customer":"Ana","neighborhood":"SJ","street":"Sol"}`)
	s.do(t, http.MethodPost, "/route/recompute", "")
	marker = decode[courier.Marker](t, s.do(t, http.MethodGet, "/courier", ""))
	assert.True(t, marker.Moving)
	assert.Zero(t, marker.NodeIndex)
}

func TestMap(t *testing.T) {
	s := newTestServer(t)

	res := decode[dto.MapResponse](t, s.do(t, http.MethodGet, "/map", ""))
	assert.Equal(t, "CENTRO_DEPOSITO", res.Depot)
	assert.Len(t, res.Nodes, 15)
	assert.Len(t, res.Edges, 14)
	for _, e := range res.Edges {
		assert.True(t, e.Bidirectional, "%s-%s", e.From, e.To)
	}
	require.NotNil(t, res.Nodes[0].Position)
	assert.Equal(t, 350.0, res.Nodes[0].Position.X)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodDelete, "/route", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
