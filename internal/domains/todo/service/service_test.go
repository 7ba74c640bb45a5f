package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/Valex-Destigos/TooDoo/config"
	kafkaMocks "github.com/Valex-Destigos/TooDoo/infras/kafka/mocks"
	"github.com/Valex-Destigos/TooDoo/infras/otel/mocks"
	todoMocks "github.com/Valex-Destigos/TooDoo/internal/domains/todo/mocks"
	"github.com/Valex-Destigos/TooDoo/internal/domains/todo/model"
	"github.com/Valex-Destigos/TooDoo/internal/domains/todo/model/dto"
	"github.com/Valex-Destigos/TooDoo/internal/domains/todo/repository"
	"github.com/Valex-Destigos/TooDoo/internal/domains/todo/service"
	cacheMocks "github.com/Valex-Destigos/TooDoo/shared/cache/mocks"
	"github.com/Valex-Destigos/TooDoo/shared/constant"
	"github.com/Valex-Destigos/TooDoo/shared/failure"
)

type testDeps struct {
	repo   *todoMocks.MockTodo
	cache  *cacheMocks.MockRedisCache
	events *kafkaMocks.MockClient
	svc    service.Todo
}

func newTestService(t *testing.T) testDeps {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := todoMocks.NewMockTodo(ctrl)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)
	events := kafkaMocks.NewMockClient(ctrl)

	// Cache invalidation and event publication run off the request path and
	// are best-effort.
	redisCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redisCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	events.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(repo, &config.Config{}, redisCache, events, mocks.NewOtel())

	return testDeps{
		repo:   repo,
		cache:  redisCache,
		events: events,
		svc:    svc,
	}
}

// newStrictService wires mocks without the best-effort expectations, so a
// test can pin down exactly which cache and event calls happen.
func newStrictService(t *testing.T) testDeps {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := todoMocks.NewMockTodo(ctrl)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)
	events := kafkaMocks.NewMockClient(ctrl)

	svc := service.New(repo, &config.Config{}, redisCache, events, mocks.NewOtel())

	return testDeps{
		repo:   repo,
		cache:  redisCache,
		events: events,
		svc:    svc,
	}
}

func authedContext(ownerID int64) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, ownerID)
}

func TestTodoService_List(t *testing.T) {
	deps := newTestService(t)

	todos := []model.Todo{
		{ID: 1, OwnerID: 7, Title: "buy milk", Repeat: model.RepeatNever, Reminders: []model.Reminder{}},
		{ID: 2, OwnerID: 7, Title: "water plants", Repeat: model.RepeatDaily, Reminders: []model.Reminder{
			{ID: 10, TodoID: 2, At: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)},
		}},
	}

	deps.cache.EXPECT().
		Get(gomock.Any(), "todo:list:7", gomock.Any()).
		Return(errors.New("cache miss"))

	deps.repo.EXPECT().
		List(gomock.Any(), int64(7)).
		Return(todos, nil)

	res, err := deps.svc.List(authedContext(7))

	assert.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Equal(t, "buy milk", res[0].Title)
	assert.Len(t, res[1].Reminder, 1)
}

func TestTodoService_List_CacheHit(t *testing.T) {
	deps := newTestService(t)

	cached := []dto.TodoResponse{
		{ID: 1, Title: "buy milk", Repeat: "Never", Reminder: []time.Time{}},
	}

	deps.cache.EXPECT().
		Get(gomock.Any(), "todo:list:7", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any) error {
			res, ok := value.(*[]dto.TodoResponse)
			if !ok {
				t.Fatalf("unexpected cache value type %T", value)
			}

			*res = cached

			return nil
		})

	res, err := deps.svc.List(authedContext(7))

	assert.NoError(t, err)
	assert.Equal(t, cached, res)
}

func TestTodoService_List_MissingUser(t *testing.T) {
	deps := newTestService(t)

	_, err := deps.svc.List(context.Background())

	assert.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
}

func TestTodoService_Create(t *testing.T) {
	deps := newTestService(t)

	req := dto.CreateTodoRequest{
		Title:    "buy milk",
		Repeat:   "Weekly",
		Reminder: []time.Time{time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)},
	}

	deps.repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, todo model.Todo) (model.Todo, error) {
			assert.Equal(t, int64(7), todo.OwnerID)
			assert.False(t, todo.Completed)

			todo.ID = 42
			for i := range todo.Reminders {
				todo.Reminders[i].ID = int64(i + 1)
				todo.Reminders[i].TodoID = 42
			}

			return todo, nil
		})

	res, err := deps.svc.Create(authedContext(7), req)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), res.ID)
	assert.Equal(t, "Weekly", res.Repeat)
	assert.Len(t, res.Reminder, 1)
}

func TestTodoService_Create_StoreFailure(t *testing.T) {
	deps := newTestService(t)

	deps.repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(model.Todo{}, errors.New("connection refused"))

	_, err := deps.svc.Create(authedContext(7), dto.CreateTodoRequest{Title: "x", Repeat: "Never"})

	assert.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}

func TestTodoService_Update(t *testing.T) {
	deps := newTestService(t)

	req := dto.UpdateTodoRequest{
		Title:     "buy oat milk",
		Repeat:    "Never",
		Completed: true,
	}

	deps.repo.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, todo model.Todo) (model.Todo, bool, error) {
			assert.Equal(t, int64(42), todo.ID)
			assert.Equal(t, int64(7), todo.OwnerID)

			return todo, true, nil
		})

	res, err := deps.svc.Update(authedContext(7), 42, req)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), res.ID)
	assert.Equal(t, "buy oat milk", res.Title)
	assert.True(t, res.Completed)
}

func TestTodoService_Update_NoOpSkipsInvalidationAndEvents(t *testing.T) {
	deps := newStrictService(t)

	req := dto.UpdateTodoRequest{
		Title:  "someone else's todo",
		Repeat: "Never",
	}

	// Zero rows affected: no cache or event calls are expected, so any
	// would fail the controller.
	deps.repo.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, todo model.Todo) (model.Todo, bool, error) {
			return todo, false, nil
		})

	res, err := deps.svc.Update(authedContext(7), 42, req)

	assert.NoError(t, err)
	assert.Equal(t, "someone else's todo", res.Title)
}

func TestTodoService_Delete_InvalidatesExactListKey(t *testing.T) {
	deps := newStrictService(t)

	deps.repo.EXPECT().
		Delete(gomock.Any(), int64(12), int64(3)).
		Return(nil)

	// The exact key only: a prefix pattern would also sweep the lists of
	// owners 120-129.
	deps.cache.EXPECT().
		Delete(gomock.Any(), "todo:list:12").
		Return(nil)

	deps.events.EXPECT().
		SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	err := deps.svc.Delete(authedContext(12), 3)

	assert.NoError(t, err)
}

func TestTodoService_Delete(t *testing.T) {
	deps := newTestService(t)

	deps.repo.EXPECT().
		Delete(gomock.Any(), int64(7), int64(42)).
		Return(nil)

	err := deps.svc.Delete(authedContext(7), 42)

	assert.NoError(t, err)
}

func TestTodoService_Delete_NotFound(t *testing.T) {
	deps := newTestService(t)

	deps.repo.EXPECT().
		Delete(gomock.Any(), int64(7), int64(42)).
		Return(repository.ErrNotFound)

	err := deps.svc.Delete(authedContext(7), 42)

	assert.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}
