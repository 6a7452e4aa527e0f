package api

import (
	"delivery-dispatch-service/internal/api/handlers"
	"delivery-dispatch-service/internal/courier"
	"delivery-dispatch-service/internal/ports"
	"delivery-dispatch-service/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators the HTTP layer needs. Publisher and Courier
// are optional.
type Deps struct {
	System    *services.DeliverySystem
	Publisher ports.EventPublisher
	Courier   *courier.Animator
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)

	catalog := &handlers.CatalogHandler{System: deps.System}
	orders := &handlers.OrderHandler{System: deps.System, Publisher: deps.Publisher}
	route := &handlers.RouteHandler{System: deps.System}
	townMap := &handlers.MapHandler{System: deps.System}
	if deps.Courier != nil {
		orders.Courier = deps.Courier
		route.Courier = deps.Courier
		townMap.Marker = deps.Courier
	}

	r.Get("/health", handlers.Health)

	r.Get("/neighborhoods", catalog.Neighborhoods)
	r.Get("/neighborhoods/{name}/streets", catalog.Streets)

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", orders.List)
		r.Post("/", orders.Create)
		r.Post("/dispatch", orders.Dispatch)
	})

	r.Get("/route", route.Get)
	r.Post("/route/recompute", route.Recompute)

	r.Get("/map", townMap.Map)
	r.Get("/courier", townMap.Courier)

	return r
}
