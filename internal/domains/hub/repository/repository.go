package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"tarmac/infras/otel"
	"tarmac/infras/postgres"
	"tarmac/internal/domains/hub/model"
	gDto "tarmac/shared/dto"
	gRepo "tarmac/shared/repository"
)

type Hub interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Hub, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Hub, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Hub]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Hub {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Hub](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
