package router

import (
	"github.com/go-chi/chi/v5"

	"tarmac/internal/handlers/booking"
	"tarmac/internal/handlers/health"
	"tarmac/internal/handlers/hub"
	"tarmac/internal/handlers/slot"
)

type DomainHandlers struct {
	Hub     hub.Handler
	Slot    slot.Handler
	Booking booking.Handler
	Health  health.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	r.DomainHandlers.Health.Router(router)

	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Hub.Router(routerGroup)
		r.DomainHandlers.Slot.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
