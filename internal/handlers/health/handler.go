package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"tarmac/infras/otel"
	"tarmac/infras/postgres"
	"tarmac/internal/events"
	"tarmac/internal/sweeper"
	"tarmac/shared/constant"
	"tarmac/transport/http/response"
)

const (
	statusUp   = "up"
	statusDown = "down"
)

type CheckResponse struct {
	Status        string         `json:"status"`
	Postgres      string         `json:"postgres"`
	Redis         string         `json:"redis"`
	Sweeper       sweeper.Status `json:"sweeper"`
	EventFallback int            `json:"event_fallback"`
}

type Handler struct {
	db      *postgres.Connection
	redis   *goRedis.Client
	sweeper sweeper.Sweeper
	emitter events.Emitter
	otel    otel.Otel
}

func New(
	db *postgres.Connection,
	redis *goRedis.Client,
	sweeper sweeper.Sweeper,
	emitter events.Emitter,
	otel otel.Otel,
) Handler {
	return Handler{
		db:      db,
		redis:   redis,
		sweeper: sweeper,
		emitter: emitter,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health", handler.Check)
}

// Check reports the health of the service and its dependencies.
// @Summary Health check
// @Description Report connectivity to the datastore and cache, sweeper liveness, and the undelivered event backlog.
// @Tags Health
// @Produce json
// @Success 200 {object} response.Data[CheckResponse] "Service is healthy"
// @Failure 503 {object} response.Data[CheckResponse] "A dependency is unavailable"
// @Router /health [get]
func (handler *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".HealthCheck")
	defer scope.End()

	res := CheckResponse{
		Status:        statusUp,
		Postgres:      statusUp,
		Redis:         statusUp,
		Sweeper:       handler.sweeper.Status(),
		EventFallback: handler.emitter.FallbackSize(),
	}

	if err := handler.db.Read.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("postgres read health check failed")

		res.Postgres = statusDown
		res.Status = statusDown
	}

	if err := handler.db.Write.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("postgres write health check failed")

		res.Postgres = statusDown
		res.Status = statusDown
	}

	if err := handler.redis.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("redis health check failed")

		res.Redis = statusDown
		res.Status = statusDown
	}

	if !handler.sweeper.Healthy() {
		log.Error().Msg("expiry sweeper is stalled or stopped")

		res.Status = statusDown
	}

	code := http.StatusOK
	if res.Status == statusDown {
		code = http.StatusServiceUnavailable
	}

	response.WithJSON(w, code, res)
}
