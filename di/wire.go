//go:build wireinject
// +build wireinject

package di

import (
	"tarmac/config"
	"tarmac/infras/kafka"
	"tarmac/infras/otel"
	"tarmac/infras/postgres"
	"tarmac/infras/redis"
	"tarmac/internal/events"
	"tarmac/internal/sweeper"
	"tarmac/shared/cache"
	"tarmac/transport/http"
	"tarmac/transport/http/middleware"
	"tarmac/transport/http/router"

	bookingRepository "tarmac/internal/domains/booking/repository"
	bookingService "tarmac/internal/domains/booking/service"
	hubRepository "tarmac/internal/domains/hub/repository"
	hubService "tarmac/internal/domains/hub/service"
	slotRepository "tarmac/internal/domains/slot/repository"
	slotService "tarmac/internal/domains/slot/service"

	bookingHandler "tarmac/internal/handlers/booking"
	healthHandler "tarmac/internal/handlers/health"
	hubHandler "tarmac/internal/handlers/hub"
	slotHandler "tarmac/internal/handlers/slot"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var hubDomain = wire.NewSet(
	hubRepository.New,
	hubService.New,
)

var slotDomain = wire.NewSet(
	slotRepository.New,
	slotService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	hubDomain,
	slotDomain,
	bookingDomain,
)

var background = wire.NewSet(
	events.NewEmitter,
	sweeper.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	hubHandler.New,
	slotHandler.New,
	bookingHandler.New,
	healthHandler.New,
	router.New,
)

func InitializeApp() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		background,
		routing,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
