package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tarmac/config"
	"tarmac/infras/otel"
	"tarmac/infras/postgres"
	"tarmac/internal/domains/booking/model"
	"tarmac/internal/domains/booking/model/dto"
	"tarmac/internal/domains/booking/repository"
	slotModel "tarmac/internal/domains/slot/model"
	slotRepository "tarmac/internal/domains/slot/repository"
	"tarmac/internal/events"
	"tarmac/shared"
	"tarmac/shared/constant"
	gDto "tarmac/shared/dto"
	"tarmac/shared/failure"
	"tarmac/shared/reference"
	"tarmac/shared/timezone"
)

const (
	// sweepBatchLimit caps how many overdue holds a single sweep pass touches.
	sweepBatchLimit = 100

	readRetryDelay = 50 * time.Millisecond
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Confirm(ctx context.Context, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (dto.BookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetByReference(ctx context.Context, ref string) (dto.BookingResponse, error)
	ListByCandidate(ctx context.Context, candidateID string) (dto.GetBookingsResponse, error)
	ListBySlot(ctx context.Context, slotID string) (dto.GetBookingsResponse, error)
	ExpireOverdueHolds(ctx context.Context) (int, error)
}

type serviceImpl struct {
	repo     repository.Booking
	slotRepo slotRepository.Slot
	db       *postgres.Connection
	cfg      *config.Config
	emitter  events.Emitter
	otel     otel.Otel
}

func New(
	repo repository.Booking,
	slotRepo slotRepository.Slot,
	db *postgres.Connection,
	cfg *config.Config,
	emitter events.Emitter,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:     repo,
		slotRepo: slotRepo,
		db:       db,
		cfg:      cfg,
		emitter:  emitter,
		otel:     otel,
	}
}

// Create reserves a slot for a candidate. The AVAILABLE -> HELD slot
// transition and the booking insert commit in one transaction, so under
// concurrent requests for the same slot exactly one caller gets the booking
// and the rest get a conflict. The hold expires unless confirmed within the
// configured window.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	slot, err := s.slotRepo.Get(ctx, shared.FilterByID(req.SlotID, slotModel.FieldID, slotModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("slot_id", req.SlotID).Msg("failed to get slot")

		return res, fmt.Errorf("failed to get slot: %w", err)
	}

	if slot.ID == constant.Empty {
		return res, failure.NotFound("slot not found") // nolint:wrapcheck
	}

	for range s.cfg.Booking.ReferenceAttempts {
		booking, conflict, err := s.createOnce(ctx, req)
		if errors.Is(err, repository.ErrDuplicateReference) {
			log.Warn().Str("slot_id", req.SlotID).Msg("booking reference collision, regenerating")

			continue
		}

		if err != nil {
			return res, err
		}

		if conflict {
			return res, s.conflictForSlot(ctx, req.SlotID) // nolint:wrapcheck
		}

		s.emitter.Publish(ctx, events.Event{
			EventType: events.TypeBookingCreated,
			BookingID: booking.ID,
			SlotID:    booking.SlotID,
			Reference: booking.Reference,
			Payload: map[string]any{
				"candidate_id":    booking.CandidateID,
				"hold_expires_at": booking.HoldExpiresAt.Format(constant.DateFormat),
			},
		})

		res.FromModel(booking)

		return res, nil
	}

	err = errors.New("exhausted booking reference attempts")
	log.Error().Err(err).Str("slot_id", req.SlotID).Msg("failed to create booking")

	return res, failure.InternalError(err) // nolint:wrapcheck
}

// createOnce runs a single hold-and-insert transaction attempt. conflict
// reports that the slot was not AVAILABLE; a duplicate generated reference
// surfaces as repository.ErrDuplicateReference.
func (s *serviceImpl) createOnce(ctx context.Context, req dto.CreateBookingRequest) (booking model.Booking, conflict bool, err error) {
	tx, err := s.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to begin transaction")

		return booking, false, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil || conflict {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				log.Error().Err(rollbackErr).Msg("failed to rollback transaction")
			}
		}
	}()

	token, held, err := s.slotRepo.HoldTx(ctx, tx, req.SlotID)
	if err != nil {
		return booking, false, fmt.Errorf("failed to hold slot: %w", err)
	}

	if !held {
		return booking, true, nil
	}

	now := timezone.Now()

	booking = req.ToModel(
		uuid.NewString(),
		reference.New(),
		now.Add(time.Duration(s.cfg.Booking.HoldMinutes)*time.Minute),
	)
	booking.SlotLockToken = token
	booking.CreatedAt = now
	booking.ModifiedAt = now
	booking.CreatedBy = model.EntityName
	booking.ModifiedBy = model.EntityName

	err = s.repo.CreateTx(ctx, tx, booking)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateReference) {
			return booking, false, err
		}

		log.Error().Err(err).Str("slot_id", req.SlotID).Msg("failed to insert booking")

		return booking, false, fmt.Errorf("failed to insert booking: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		log.Error().Err(err).Msg("failed to commit transaction")

		return booking, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return booking, false, nil
}

// conflictForSlot names the conflict after the committed slot state so the
// caller learns why the slot could not be taken.
func (s *serviceImpl) conflictForSlot(ctx context.Context, slotID string) error {
	slot, err := s.slotRepo.Get(ctx, shared.FilterByID(slotID, slotModel.FieldID, slotModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("slot_id", slotID).Msg("failed to get slot after conflict")

		return failure.Conflict("slot is no longer available")
	}

	switch slot.Status {
	case slotModel.StatusHeld:
		return failure.Conflict("slot is held by another booking")
	case slotModel.StatusConfirmed:
		return failure.Conflict("slot is already booked")
	case slotModel.StatusCancelled:
		return failure.Conflict("slot is no longer bookable")
	default:
		return failure.Conflict("slot is no longer available")
	}
}

// Confirm finalizes a held booking. Confirming an already confirmed booking is
// a no-op success; any other state, or a hold that has lapsed, conflicts.
func (s *serviceImpl) Confirm(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ConfirmBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return res, err
	}

	if booking.Status == model.StatusConfirmed {
		res.FromModel(booking)

		return res, nil
	}

	if booking.Status != model.StatusPendingHold {
		return res, failure.Conflict("booking is not awaiting confirmation") // nolint:wrapcheck
	}

	now := timezone.Now()
	if now.After(booking.HoldExpiresAt) {
		return res, failure.Conflict("booking hold has expired") // nolint:wrapcheck
	}

	// The slot flip and the booking update commit together, mirroring the
	// create path. A sweep racing this confirmation sees either both writes or
	// neither, so it can never expire a booking whose slot just confirmed.
	tx, err := s.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to begin transaction")

		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				log.Error().Err(rollbackErr).Msg("failed to rollback transaction")
			}
		}
	}()

	ok, err := s.slotRepo.ConfirmTx(ctx, tx, booking.SlotID, booking.SlotLockToken)
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to confirm slot")

		return res, fmt.Errorf("failed to confirm slot: %w", err)
	}

	if !ok {
		return res, failure.Conflict("booking hold has expired") // nolint:wrapcheck
	}

	count, err := s.repo.UpdateCheckedTx(ctx, tx, map[string]any{
		model.FieldStatus: model.StatusConfirmed,
		"modified_at":     now,
		"modified_by":     model.EntityName,
	}, s.filterByIDAndStatus(id, model.StatusPendingHold))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to confirm booking")

		return res, fmt.Errorf("failed to confirm booking: %w", err)
	}

	if count == 0 {
		return res, failure.Conflict("booking was modified concurrently") // nolint:wrapcheck
	}

	err = tx.Commit()
	if err != nil {
		log.Error().Err(err).Msg("failed to commit transaction")

		return res, fmt.Errorf("failed to commit transaction: %w", err)
	}

	booking.Status = model.StatusConfirmed
	booking.ModifiedAt = now
	booking.ModifiedBy = model.EntityName

	s.emitter.Publish(ctx, events.Event{
		EventType: events.TypeBookingConfirmed,
		BookingID: booking.ID,
		SlotID:    booking.SlotID,
		Reference: booking.Reference,
	})

	res.FromModel(booking)

	return res, nil
}

// Cancel releases a booking's slot back to AVAILABLE and records the
// cancellation. Held and confirmed bookings can be cancelled; cancelling an
// already cancelled booking is a no-op success.
func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return res, err
	}

	if booking.Status == model.StatusCancelled {
		res.FromModel(booking)

		return res, nil
	}

	if booking.Status == model.StatusExpired {
		return res, failure.Conflict("booking has already expired") // nolint:wrapcheck
	}

	slotFromStatus := slotModel.StatusHeld
	if booking.Status == model.StatusConfirmed {
		slotFromStatus = slotModel.StatusConfirmed
	}

	// The slot is released first. If the process dies before the booking row
	// is updated, a pending hold is later expired by the sweeper and a
	// confirmed booking stays cancellable, so nothing is left stranded.
	_, err = s.slotRepo.Release(ctx, booking.SlotID, booking.SlotLockToken, slotFromStatus)
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to release slot")

		return res, fmt.Errorf("failed to release slot: %w", err)
	}

	now := timezone.Now()

	count, err := s.repo.UpdateChecked(ctx, map[string]any{
		model.FieldStatus:     model.StatusCancelled,
		"cancelled_at":        now,
		"cancellation_reason": req.Reason,
		"modified_at":         now,
		"modified_by":         model.EntityName,
	}, s.filterByIDAndStatus(id, booking.Status))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to cancel booking")

		return res, fmt.Errorf("failed to cancel booking: %w", err)
	}

	if count == 0 {
		return res, failure.Conflict("booking was modified concurrently") // nolint:wrapcheck
	}

	booking.Status = model.StatusCancelled
	booking.CancelledAt.Time = now
	booking.CancelledAt.Valid = true
	booking.CancellationReason.String = req.Reason
	booking.CancellationReason.Valid = req.Reason != constant.Empty
	booking.ModifiedAt = now
	booking.ModifiedBy = model.EntityName

	s.emitter.Publish(ctx, events.Event{
		EventType: events.TypeBookingCancelled,
		BookingID: booking.ID,
		SlotID:    booking.SlotID,
		Reference: booking.Reference,
		Payload: map[string]any{
			"reason": req.Reason,
		},
	})

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetByReference(ctx context.Context, ref string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBookingByReference")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldReference,
				Operator: gDto.FilterOperatorEq,
				Value:    ref,
				Table:    model.TableName,
			},
		},
	}

	booking, err := s.getBooking(ctx, filter)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) ListByCandidate(ctx context.Context, candidateID string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListBookingsByCandidate")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCandidateID,
				Operator: gDto.FilterOperatorEq,
				Value:    candidateID,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{
		SortBy:  "created_at",
		SortDir: gDto.SortDirDesc,
	}

	bookings, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Str("candidate_id", candidateID).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(bookings)

	return res, nil
}

// ListBySlot returns every booking that ever referenced a slot, newest first.
// Terminal bookings are retained, so this is the slot's full reservation
// history.
func (s *serviceImpl) ListBySlot(ctx context.Context, slotID string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListBookingsBySlot")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldSlotID,
				Operator: gDto.FilterOperatorEq,
				Value:    slotID,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{
		SortBy:  "created_at",
		SortDir: gDto.SortDirDesc,
	}

	bookings, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Str("slot_id", slotID).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(bookings)

	return res, nil
}

// ExpireOverdueHolds moves lapsed PENDING_HOLD bookings to EXPIRED and frees
// their slots. Each booking is handled independently and every write is
// guarded, so running it concurrently with confirmations, cancellations or a
// second sweep is safe; the pass is idempotent.
func (s *serviceImpl) ExpireOverdueHolds(ctx context.Context) (expired int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ExpireOverdueHolds")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()

	overdue, err := s.repo.ListExpiredHolds(ctx, now, sweepBatchLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list expired holds")

		return 0, fmt.Errorf("failed to list expired holds: %w", err)
	}

	for _, booking := range overdue {
		// A guard miss here means the hold was confirmed or cancelled after
		// the listing; the release is then a no-op and the booking update
		// below will not match either.
		_, err := s.slotRepo.Release(ctx, booking.SlotID, booking.SlotLockToken, slotModel.StatusHeld)
		if err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to release expired slot")

			continue
		}

		count, err := s.repo.UpdateChecked(ctx, map[string]any{
			model.FieldStatus: model.StatusExpired,
			"modified_at":     now,
			"modified_by":     "sweeper",
		}, s.filterByIDAndStatus(booking.ID, model.StatusPendingHold))
		if err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to expire booking")

			continue
		}

		if count == 0 {
			continue
		}

		expired++

		s.emitter.Publish(ctx, events.Event{
			EventType: events.TypeBookingExpired,
			BookingID: booking.ID,
			SlotID:    booking.SlotID,
			Reference: booking.Reference,
		})
	}

	return expired, nil
}

// getBooking reads a booking with a few retries. Reads go to the read
// replica, which can briefly trail a booking that was just written.
func (s *serviceImpl) getBooking(ctx context.Context, filter gDto.FilterGroup) (booking model.Booking, err error) {
	for attempt := 0; attempt < s.cfg.Booking.ReadRetryAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(readRetryDelay)
		}

		booking, err = s.repo.Get(ctx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to get booking")

			return booking, fmt.Errorf("failed to get booking: %w", err)
		}

		if booking.ID != constant.Empty {
			return booking, nil
		}
	}

	return booking, failure.NotFound("booking not found") // nolint:wrapcheck
}

func (s *serviceImpl) filterByIDAndStatus(id, status string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "prior_status",
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    status,
				Table:    model.TableName,
			},
		},
	}
}
