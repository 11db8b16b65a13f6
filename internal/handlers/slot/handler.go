package slot

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tarmac/infras/otel"
	"tarmac/internal/domains/slot/service"
	"tarmac/shared/constant"
	"tarmac/shared/failure"
	"tarmac/transport/http/response"
)

type Handler struct {
	service service.Slot
	otel    otel.Otel
}

func New(service service.Slot, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/slots", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetAvailableSlots)
		routerGroup.Get("/calendar", handler.GetHubCalendar)
		routerGroup.Get("/{id}", handler.GetSlotByID)
	})
}

// GetAvailableSlots lists the bookable slots for a hub on a given day.
// @Summary Get available slots
// @Description Retrieve the slots currently available for booking at a hub on a given date.
// @Tags Slot
// @Produce json
// @Param hub query string true "Hub ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param duration query int false "Minimum slot duration in minutes"
// @Success 200 {object} response.Data[dto.GetSlotsResponse] "List of available slots"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots [get]
func (handler *Handler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableSlots")
	defer scope.End()

	hubID := r.URL.Query().Get(constant.RequestParamHub)
	date := r.URL.Query().Get(constant.RequestParamDate)

	duration := 0

	if rawDuration := r.URL.Query().Get(constant.RequestParamDuration); rawDuration != constant.Empty {
		parsed, err := strconv.Atoi(rawDuration)
		if err != nil {
			response.WithError(w, failure.BadRequestFromString("duration must be a number"))

			return
		}

		duration = parsed
	}

	slots, err := handler.service.ListAvailable(ctx, hubID, date, duration)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get available slots")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, slots)
}

// GetHubCalendar returns a hub's full slot schedule over a date range.
// @Summary Get hub slot calendar
// @Description Retrieve every slot of a hub between two dates, with per-status counts.
// @Tags Slot
// @Produce json
// @Param hub query string true "Hub ID"
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetCalendarResponse] "Slot calendar"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots/calendar [get]
func (handler *Handler) GetHubCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHubCalendar")
	defer scope.End()

	calendar, err := handler.service.Calendar(
		ctx,
		r.URL.Query().Get(constant.RequestParamHub),
		r.URL.Query().Get(constant.RequestParamStartDate),
		r.URL.Query().Get(constant.RequestParamEndDate),
	)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get hub calendar")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, calendar)
}

// GetSlotByID returns a single slot.
// @Summary Get slot by ID
// @Description Retrieve a slot by its ID, regardless of status.
// @Tags Slot
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Data[dto.SlotResponse] "Slot details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots/{id} [get]
func (handler *Handler) GetSlotByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlotByID")
	defer scope.End()

	slot, err := handler.service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get slot")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, slot)
}
