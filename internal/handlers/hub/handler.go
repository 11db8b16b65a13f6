package hub

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tarmac/infras/otel"
	"tarmac/internal/domains/hub/service"
	"tarmac/shared/constant"
	"tarmac/transport/http/response"
)

type Handler struct {
	service service.Hub
	otel    otel.Otel
}

func New(service service.Hub, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/hubs", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetHubs)
		routerGroup.Get("/{id}", handler.GetHubByID)
	})
}

// GetHubs lists all active test hubs.
// @Summary Get all hubs
// @Description Retrieve all active test hubs, ordered by name.
// @Tags Hub
// @Produce json
// @Success 200 {object} response.Data[dto.GetHubsResponse] "List of hubs"
// @Failure 500 {object} response.Error
// @Router /v1/hubs [get]
func (handler *Handler) GetHubs(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHubs")
	defer scope.End()

	hubs, err := handler.service.GetAll(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get hubs")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, hubs)
}

// GetHubByID retrieves a hub by its ID.
// @Summary Get a hub by ID
// @Description Retrieve a test hub by its unique identifier.
// @Tags Hub
// @Produce json
// @Param id path string true "Hub ID"
// @Success 200 {object} response.Data[dto.HubResponse] "Hub details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hubs/{id} [get]
func (handler *Handler) GetHubByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHubByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	hub, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get hub by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, hub)
}
