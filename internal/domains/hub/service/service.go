package service

import (
	"context"
	"fmt"
	"tarmac/config"
	"tarmac/infras/otel"
	"tarmac/internal/domains/hub/model"
	"tarmac/internal/domains/hub/model/dto"
	"tarmac/internal/domains/hub/repository"
	"tarmac/shared"
	"tarmac/shared/cache"
	"tarmac/shared/constant"
	gDto "tarmac/shared/dto"
	"tarmac/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetHub     = "hub:get"
	cacheGetAllHubs = "hub:gets"
)

type Hub interface {
	GetAll(ctx context.Context) (dto.GetHubsResponse, error)
	Get(ctx context.Context, id string) (dto.HubResponse, error)
}

type serviceImpl struct {
	repo  repository.Hub
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Hub, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Hub {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// GetAll returns every active hub, ordered by name. Hubs change rarely, so the
// listing is served from cache when possible.
func (s *serviceImpl) GetAll(ctx context.Context) (res dto.GetHubsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllHubs")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetAllHubs)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldIsActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{
		SortBy:  model.FieldName,
		SortDir: gDto.SortDirAsc,
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get hubs")

		return res, fmt.Errorf("failed to get hubs: %w", err)
	}

	res.FromModels(models)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save hubs to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.HubResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetHub")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetHub, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	hub, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get hub")

		return res, fmt.Errorf("failed to get hub: %w", err)
	}

	if hub.ID == constant.Empty {
		return res, failure.NotFound("hub not found") // nolint:wrapcheck
	}

	res.FromModel(hub)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save hub to cache")
		}
	}()

	return res, nil
}
