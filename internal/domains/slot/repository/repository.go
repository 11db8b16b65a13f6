package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"tarmac/infras/otel"
	"tarmac/infras/postgres"
	"tarmac/internal/domains/slot/model"
	"tarmac/shared/constant"
	gDto "tarmac/shared/dto"
	"tarmac/shared/logger"
	gRepo "tarmac/shared/repository"
	"tarmac/shared/timezone"
)

// Every slot mutation in the service goes through HoldTx, Release or Confirm.
// Each is a single conditional UPDATE guarded by the expected prior status
// (and, for Release/Confirm, the lock token), so the check and the transition
// are one indivisible operation against the store.
const (
	queryHold = `UPDATE slots
		SET status = 'HELD', lock_token = lock_token + 1, modified_at = $2, modified_by = $3
		WHERE id = $1 AND status = 'AVAILABLE'
		RETURNING lock_token`

	queryRelease = `UPDATE slots
		SET status = 'AVAILABLE', lock_token = lock_token + 1, modified_at = $4, modified_by = $5
		WHERE id = $1 AND lock_token = $2 AND status = $3`

	// Confirm keeps the lock token of the hold, so the booking that owns the
	// hold can still cancel after confirmation with the token it recorded.
	queryConfirm = `UPDATE slots
		SET status = 'CONFIRMED', modified_at = $3, modified_by = $4
		WHERE id = $1 AND lock_token = $2 AND status = 'HELD'`
)

type Slot interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Slot, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	GetAvailable(ctx context.Context, hubID string, date time.Time, minDurationMinutes int) ([]model.Slot, error)
	GetRange(ctx context.Context, hubID string, startDate, endDate time.Time) ([]model.Slot, error)
	HoldTx(ctx context.Context, tx *sqlx.Tx, id string) (token int64, ok bool, err error)
	Release(ctx context.Context, id string, token int64, fromStatus string) (bool, error)
	ConfirmTx(ctx context.Context, tx *sqlx.Tx, id string, token int64) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Slot]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Slot {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Slot](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetAvailable lists AVAILABLE future slots for a hub on the given date. The
// read goes against committed state, so a slot flipped by a concurrent hold is
// never reported as available.
func (repo *repositoryImpl) GetAvailable(ctx context.Context, hubID string, date time.Time, minDurationMinutes int) ([]model.Slot, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".slot.GetAvailable")
	defer scope.End()

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldHubID,
				Operator: gDto.FilterOperatorEq,
				Value:    hubID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    model.StatusAvailable,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "day_start",
				Field:    model.FieldStartTime,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    dayStart,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "day_end",
				Field:    model.FieldStartTime,
				Operator: gDto.FilterOperatorLess,
				Value:    dayEnd,
				Table:    model.TableName,
			},
			// Slots whose start time has already passed are not bookable,
			// even though their status is still AVAILABLE.
			gDto.Filter{
				ArgName:  "now",
				Field:    model.FieldStartTime,
				Operator: gDto.FilterOperatorGreater,
				Value:    timezone.Now(),
				Table:    model.TableName,
			},
		},
	}

	if minDurationMinutes > 0 {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldDurationMinutes,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    minDurationMinutes,
			Table:    model.TableName,
		})
	}

	params := gDto.QueryParams{
		SortBy:  model.FieldStartTime,
		SortDir: gDto.SortDirAsc,
	}

	return repo.GetAll(ctx, params, filter) //nolint:wrapcheck
}

// GetRange lists every slot of a hub between two dates inclusive, regardless
// of status, ordered by start time. This backs the calendar view, so taken
// and cancelled slots are part of the result.
func (repo *repositoryImpl) GetRange(ctx context.Context, hubID string, startDate, endDate time.Time) ([]model.Slot, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".slot.GetRange")
	defer scope.End()

	rangeStart := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	rangeEnd := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, endDate.Location()).AddDate(0, 0, 1)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldHubID,
				Operator: gDto.FilterOperatorEq,
				Value:    hubID,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "range_start",
				Field:    model.FieldStartTime,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    rangeStart,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "range_end",
				Field:    model.FieldStartTime,
				Operator: gDto.FilterOperatorLess,
				Value:    rangeEnd,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{
		SortBy:  model.FieldStartTime,
		SortDir: gDto.SortDirAsc,
	}

	return repo.GetAll(ctx, params, filter) //nolint:wrapcheck
}

// HoldTx attempts the AVAILABLE -> HELD transition inside the caller's
// transaction. ok reports whether this caller won the slot; a lost race is not
// an error.
func (repo *repositoryImpl) HoldTx(ctx context.Context, tx *sqlx.Tx, id string) (token int64, ok bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".slot.HoldTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryHold)

	err = tx.GetContext(ctx, &token, queryHold, id, timezone.Now(), model.EntityName)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, false, fmt.Errorf("failed to hold slot: %w", err)
	}

	return token, true, nil
}

// Release returns a slot to AVAILABLE, guarded by the lock token recorded when
// the slot left AVAILABLE. A guard miss means a newer operation already owns
// the slot; the write is a harmless no-op.
func (repo *repositoryImpl) Release(ctx context.Context, id string, token int64, fromStatus string) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".slot.Release")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryRelease)

	result, err := repo.db.Write.ExecContext(ctx, queryRelease, id, token, fromStatus, timezone.Now(), model.EntityName)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to release slot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

// ConfirmTx finalizes a held slot inside the caller's transaction, guarded by
// the lock token of the hold. Running in the same transaction as the booking
// update keeps the slot and booking states in lockstep: neither a crash
// between the two writes nor a concurrent sweep can leave a CONFIRMED slot
// behind a booking that never confirmed.
func (repo *repositoryImpl) ConfirmTx(ctx context.Context, tx *sqlx.Tx, id string, token int64) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".slot.ConfirmTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryConfirm)

	result, err := tx.ExecContext(ctx, queryConfirm, id, token, timezone.Now(), model.EntityName)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to confirm slot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}
