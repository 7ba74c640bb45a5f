package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Valex-Destigos/TooDoo/config"
	"github.com/Valex-Destigos/TooDoo/infras/kafka"
	"github.com/Valex-Destigos/TooDoo/infras/otel"
	"github.com/Valex-Destigos/TooDoo/internal/domains/todo/model/dto"
	"github.com/Valex-Destigos/TooDoo/internal/domains/todo/repository"
	"github.com/Valex-Destigos/TooDoo/shared"
	"github.com/Valex-Destigos/TooDoo/shared/cache"
	"github.com/Valex-Destigos/TooDoo/shared/constant"
	"github.com/Valex-Destigos/TooDoo/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyPrefix = "todo"

	eventTodoCreated = "todo.created"
	eventTodoUpdated = "todo.updated"
	eventTodoDeleted = "todo.deleted"
)

type todoEvent struct {
	Action  string `json:"action"`
	OwnerID int64  `json:"owner_id"`
	TodoID  int64  `json:"todo_id"`
}

// Todo exposes the todo lifecycle for the authenticated user. Every operation
// reads the owner id from the request context; callers never pass it in, so a
// user can only ever see or touch their own todos.
type Todo interface {
	List(ctx context.Context) ([]dto.TodoResponse, error)
	Create(ctx context.Context, req dto.CreateTodoRequest) (dto.TodoResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateTodoRequest) (dto.TodoResponse, error)
	Delete(ctx context.Context, id int64) error
}

type serviceImpl struct {
	repo   repository.Todo
	cfg    *config.Config
	cache  cache.RedisCache
	events kafka.Client
	otel   otel.Otel
}

func New(repo repository.Todo, cfg *config.Config, redisCache cache.RedisCache, events kafka.Client, ot otel.Otel) Todo {
	return &serviceImpl{
		repo:   repo,
		cfg:    cfg,
		cache:  redisCache,
		events: events,
		otel:   ot,
	}
}

func ownerIDFromContext(ctx context.Context) (int64, error) {
	ownerID, ok := shared.UserIDFromContext(ctx)
	if !ok {
		return 0, failure.Unauthorized("missing authenticated user")
	}

	return ownerID, nil
}

func listCacheKey(ownerID int64) string {
	return shared.BuildCacheKey(cacheKeyPrefix, "list", strconv.FormatInt(ownerID, 10))
}

func (s *serviceImpl) List(ctx context.Context) (res []dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.End()
	defer scope.TraceIfError(err)

	ownerID, err := ownerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	cacheKey := listCacheKey(ownerID)
	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	todos, err := s.repo.List(ctx, ownerID)
	if err != nil {
		log.Error().Err(err).Int64("owner_id", ownerID).Msg("failed to list todos")

		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	res = dto.FromModels(todos)

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Str("key", cacheKey).Msg("failed to cache todo list")
	}

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTodoRequest) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	ownerID, err := ownerIDFromContext(ctx)
	if err != nil {
		return res, err
	}

	created, err := s.repo.Create(ctx, req.ToModel(ownerID))
	if err != nil {
		log.Error().Err(err).Int64("owner_id", ownerID).Msg("failed to create todo")

		return res, fmt.Errorf("failed to create todo: %w", err)
	}

	s.afterMutation(ctx, eventTodoCreated, ownerID, created.ID)

	res.FromModel(created)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id int64, req dto.UpdateTodoRequest) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	ownerID, err := ownerIDFromContext(ctx)
	if err != nil {
		return res, err
	}

	updated, mutated, err := s.repo.Update(ctx, req.ToModel(ownerID, id))
	if err != nil {
		log.Error().Err(err).Int64("owner_id", ownerID).Int64("todo_id", id).Msg("failed to update todo")

		return res, fmt.Errorf("failed to update todo: %w", err)
	}

	// A zero-row update touched nothing, so the cached list is still valid
	// and no change event should go out.
	if mutated {
		s.afterMutation(ctx, eventTodoUpdated, ownerID, id)
	}

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	ownerID, err := ownerIDFromContext(ctx)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return failure.NotFound("todo not found")
		}

		log.Error().Err(err).Int64("owner_id", ownerID).Int64("todo_id", id).Msg("failed to delete todo")

		return fmt.Errorf("failed to delete todo: %w", err)
	}

	s.afterMutation(ctx, eventTodoDeleted, ownerID, id)

	return nil
}

// afterMutation invalidates the owner's cached list and publishes a change
// event. Both are best-effort; failures are logged, never surfaced.
func (s *serviceImpl) afterMutation(ctx context.Context, action string, ownerID, todoID int64) {
	shared.InvalidateCaches(ctx, s.cache, listCacheKey(ownerID))

	event := kafka.Message{
		Key: fmt.Sprintf("todo-%d", todoID),
		Value: todoEvent{
			Action:  action,
			OwnerID: ownerID,
			TodoID:  todoID,
		},
	}

	if err := s.events.SendMessages(ctx, s.cfg.Kafka.EventsTopic, event); err != nil {
		log.Error().Err(err).Str("action", action).Msg("failed to publish todo event")
	}
}
