package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"tarmac/infras/otel"
	"tarmac/infras/postgres"
	"tarmac/internal/domains/booking/model"
	"tarmac/shared/constant"
	gDto "tarmac/shared/dto"
	gRepo "tarmac/shared/repository"
)

// ErrDuplicateReference reports that a freshly generated booking reference
// collided with an existing row. Callers regenerate and retry.
var ErrDuplicateReference = errors.New("booking reference already exists")

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	CreateTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error
	UpdateChecked(ctx context.Context, mod map[string]any, filter gDto.FilterGroup) (int64, error)
	UpdateCheckedTx(ctx context.Context, tx *sqlx.Tx, mod map[string]any, filter gDto.FilterGroup) (int64, error)
	ListExpiredHolds(ctx context.Context, now time.Time, limit int) ([]model.Booking, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

// CreateTx inserts a booking inside the caller's transaction, translating a
// unique violation on the reference column into ErrDuplicateReference.
func (repo *repositoryImpl) CreateTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CreateTx")
	defer scope.End()

	err := repo.InsertTx(ctx, tx, booking)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) &&
		string(pqErr.Code) == constant.PqErrorCodeUniqueViolation &&
		pqErr.Constraint == model.ConstraintReference {
		return ErrDuplicateReference
	}

	return err //nolint:wrapcheck
}

// ListExpiredHolds returns PENDING_HOLD bookings whose hold deadline has
// passed, oldest first.
func (repo *repositoryImpl) ListExpiredHolds(ctx context.Context, now time.Time, limit int) ([]model.Booking, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ListExpiredHolds")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    model.StatusPendingHold,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldHoldExpiresAt,
				Operator: gDto.FilterOperatorLessEq,
				Value:    now,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{
		Limit:   limit,
		SortBy:  model.FieldHoldExpiresAt,
		SortDir: gDto.SortDirAsc,
	}

	return repo.Repository.GetAll(ctx, params, filter) //nolint:wrapcheck
}
