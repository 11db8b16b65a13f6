package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tarmac/config"
	"tarmac/infras/otel"
	hubModel "tarmac/internal/domains/hub/model"
	hubRepo "tarmac/internal/domains/hub/repository"
	"tarmac/internal/domains/slot/model"
	"tarmac/internal/domains/slot/model/dto"
	"tarmac/internal/domains/slot/repository"
	"tarmac/shared"
	"tarmac/shared/constant"
	"tarmac/shared/failure"
)

type Slot interface {
	ListAvailable(ctx context.Context, hubID, date string, minDurationMinutes int) (dto.GetSlotsResponse, error)
	Calendar(ctx context.Context, hubID, startDate, endDate string) (dto.GetCalendarResponse, error)
	Get(ctx context.Context, id string) (dto.SlotResponse, error)
}

type serviceImpl struct {
	repo    repository.Slot
	hubRepo hubRepo.Hub
	cfg     *config.Config
	otel    otel.Otel
}

func New(repo repository.Slot, hubRepo hubRepo.Hub, cfg *config.Config, otel otel.Otel) Slot {
	return &serviceImpl{
		repo:    repo,
		hubRepo: hubRepo,
		cfg:     cfg,
		otel:    otel,
	}
}

// ListAvailable returns the bookable slots for a hub on a given day. The
// result always reflects committed slot state and is never cached, so a slot
// taken by a concurrent booking disappears from the listing immediately.
func (s *serviceImpl) ListAvailable(ctx context.Context, hubID, date string, minDurationMinutes int) (res dto.GetSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListAvailableSlots")
	defer scope.End()
	defer scope.TraceIfError(err)

	if hubID == constant.Empty {
		return res, failure.BadRequestFromString("hub is required") // nolint:wrapcheck
	}

	if minDurationMinutes < 0 {
		return res, failure.BadRequestFromString("duration must not be negative") // nolint:wrapcheck
	}

	day, err := time.Parse(constant.DateOnlyFormat, date)
	if err != nil {
		return res, failure.BadRequestFromString("date must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	exist, err := s.hubRepo.Exist(ctx, shared.FilterByID(hubID, hubModel.FieldID, hubModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("hub_id", hubID).Msg("failed to check hub")

		return res, fmt.Errorf("failed to check hub: %w", err)
	}

	if !exist {
		return res, failure.NotFound("hub not found") // nolint:wrapcheck
	}

	slots, err := s.repo.GetAvailable(ctx, hubID, day, minDurationMinutes)
	if err != nil {
		log.Error().Err(err).Str("hub_id", hubID).Str("date", date).Msg("failed to get available slots")

		return res, fmt.Errorf("failed to get available slots: %w", err)
	}

	res.FromModels(slots)

	return res, nil
}

// Calendar returns every slot of a hub between two dates inclusive, together
// with per-status counts. Unlike ListAvailable it includes taken and
// cancelled slots, so a hub operator sees the full schedule.
func (s *serviceImpl) Calendar(ctx context.Context, hubID, startDate, endDate string) (res dto.GetCalendarResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SlotCalendar")
	defer scope.End()
	defer scope.TraceIfError(err)

	if hubID == constant.Empty {
		return res, failure.BadRequestFromString("hub is required") // nolint:wrapcheck
	}

	start, err := time.Parse(constant.DateOnlyFormat, startDate)
	if err != nil {
		return res, failure.BadRequestFromString("start_date must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	end, err := time.Parse(constant.DateOnlyFormat, endDate)
	if err != nil {
		return res, failure.BadRequestFromString("end_date must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	if start.After(end) {
		return res, failure.BadRequestFromString("start_date must not be after end_date") // nolint:wrapcheck
	}

	exist, err := s.hubRepo.Exist(ctx, shared.FilterByID(hubID, hubModel.FieldID, hubModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("hub_id", hubID).Msg("failed to check hub")

		return res, fmt.Errorf("failed to check hub: %w", err)
	}

	if !exist {
		return res, failure.NotFound("hub not found") // nolint:wrapcheck
	}

	slots, err := s.repo.GetRange(ctx, hubID, start, end)
	if err != nil {
		log.Error().Err(err).Str("hub_id", hubID).Str("start_date", startDate).Str("end_date", endDate).Msg("failed to get slot calendar")

		return res, fmt.Errorf("failed to get slot calendar: %w", err)
	}

	res.FromModels(hubID, startDate, endDate, slots)

	return res, nil
}

// Get returns a single slot regardless of status. Like the listing it is
// never cached.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.SlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetSlot")
	defer scope.End()
	defer scope.TraceIfError(err)

	slot, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("slot_id", id).Msg("failed to get slot")

		return res, fmt.Errorf("failed to get slot: %w", err)
	}

	if slot.ID == constant.Empty {
		return res, failure.NotFound("slot not found") // nolint:wrapcheck
	}

	res.FromModel(slot)

	return res, nil
}
