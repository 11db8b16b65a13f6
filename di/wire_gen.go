// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"github.com/google/wire"
	"tarmac/config"
	"tarmac/infras/kafka"
	"tarmac/infras/otel"
	"tarmac/infras/postgres"
	"tarmac/infras/redis"
	repository3 "tarmac/internal/domains/booking/repository"
	service3 "tarmac/internal/domains/booking/service"
	"tarmac/internal/domains/hub/repository"
	"tarmac/internal/domains/hub/service"
	repository2 "tarmac/internal/domains/slot/repository"
	service2 "tarmac/internal/domains/slot/service"
	"tarmac/internal/events"
	"tarmac/internal/handlers/booking"
	"tarmac/internal/handlers/health"
	"tarmac/internal/handlers/hub"
	"tarmac/internal/handlers/slot"
	"tarmac/internal/sweeper"
	"tarmac/shared/cache"
	"tarmac/transport/http"
	"tarmac/transport/http/middleware"
	"tarmac/transport/http/router"
)

// Injectors from wire.go:

func InitializeApp() *App {
	configConfig := config.Get()
	connection := postgres.New(configConfig)
	otelOtel := otel.New(configConfig)
	repositoryHub := repository.New(connection, otelOtel)
	client := redis.New(configConfig)
	redisCache := cache.NewRedisCache(client, otelOtel)
	serviceHub := service.New(repositoryHub, configConfig, redisCache, otelOtel)
	handler := hub.New(serviceHub, otelOtel)
	repositorySlot := repository2.New(connection, otelOtel)
	serviceSlot := service2.New(repositorySlot, repositoryHub, configConfig, otelOtel)
	slotHandler := slot.New(serviceSlot, otelOtel)
	repositoryBooking := repository3.New(connection, otelOtel)
	kafkaClient := kafka.New(configConfig)
	emitter := events.NewEmitter(kafkaClient, configConfig)
	serviceBooking := service3.New(repositoryBooking, repositorySlot, connection, configConfig, emitter, otelOtel)
	bookingHandler := booking.New(serviceBooking, otelOtel)
	sweeperSweeper := sweeper.New(serviceBooking, configConfig, otelOtel)
	healthHandler := health.New(connection, client, sweeperSweeper, emitter, otelOtel)
	domainHandlers := router.DomainHandlers{
		Hub:     handler,
		Slot:    slotHandler,
		Booking: bookingHandler,
		Health:  healthHandler,
	}
	routerRouter := router.New(domainHandlers)
	appMiddleware := middleware.NewAppMiddleware(otelOtel, configConfig, redisCache)
	httpHTTP := http.New(configConfig, routerRouter, appMiddleware)
	app := &App{
		HTTP:    httpHTTP,
		Sweeper: sweeperSweeper,
	}
	return app
}

// wire.go:

var configurations = wire.NewSet(config.Get)

var infrastructures = wire.NewSet(postgres.New, otel.New, redis.New, kafka.New)

var middlewares = wire.NewSet(middleware.NewAppMiddleware)

var sharedHelpers = wire.NewSet(cache.NewRedisCache)

var hubDomain = wire.NewSet(repository.New, service.New)

var slotDomain = wire.NewSet(repository2.New, service2.New)

var bookingDomain = wire.NewSet(repository3.New, service3.New)

var domains = wire.NewSet(
	hubDomain,
	slotDomain,
	bookingDomain,
)

var background = wire.NewSet(events.NewEmitter, sweeper.New)

var routing = wire.NewSet(wire.Struct(new(router.DomainHandlers), "*"), hub.New, slot.New, booking.New, health.New, router.New)
