package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Valex-Destigos/TooDoo/infras/otel/mocks"
	"github.com/Valex-Destigos/TooDoo/infras/postgres"
	"github.com/Valex-Destigos/TooDoo/internal/domains/todo/model"
)

func newMockRepository(t *testing.T) (Todo, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func TestTodoRepository_List_GroupsRemindersByTodo(t *testing.T) {
	repo, mock := newMockRepository(t)

	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(queryListTodos).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "description", "due", "repeat", "completed"}).
			AddRow(1, 7, "buy milk", "", nil, "Never", false).
			AddRow(2, 7, "water plants", "", nil, "Daily", false))

	mock.ExpectQuery(queryListReminders).
		WithArgs(pq.Int64Array{1, 2}).
		WillReturnRows(sqlmock.NewRows([]string{"id", "todo_id", "reminder"}).
			AddRow(10, 2, at))

	todos, err := repo.List(context.Background(), 7)

	assert.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, []model.Reminder{}, todos[0].Reminders)
	require.Len(t, todos[1].Reminders, 1)
	assert.Equal(t, int64(2), todos[1].Reminders[0].TodoID)
	assert.Equal(t, at, todos[1].Reminders[0].At)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_List_Empty(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(queryListTodos).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "description", "due", "repeat", "completed"}))

	todos, err := repo.List(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, []model.Todo{}, todos)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_Create_InsertsTodoAndRemindersInOneTransaction(t *testing.T) {
	repo, mock := newMockRepository(t)

	at1 := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	at2 := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(queryInsertTodo).
		WithArgs(int64(7), "buy milk", "", nil, model.RepeatNever, false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectQuery(queryInsertReminder).
		WithArgs(int64(42), at1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectQuery(queryInsertReminder).
		WithArgs(int64(42), at2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), model.Todo{
		OwnerID: 7,
		Title:   "buy milk",
		Repeat:  model.RepeatNever,
		Reminders: []model.Reminder{
			{At: at1},
			{At: at2},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	require.Len(t, created.Reminders, 2)
	assert.Equal(t, int64(100), created.Reminders[0].ID)
	assert.Equal(t, int64(42), created.Reminders[0].TodoID)
	assert.Equal(t, int64(101), created.Reminders[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_Create_RollsBackOnReminderFailure(t *testing.T) {
	repo, mock := newMockRepository(t)

	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(queryInsertTodo).
		WithArgs(int64(7), "buy milk", "", nil, model.RepeatNever, false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectQuery(queryInsertReminder).
		WithArgs(int64(42), at).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), model.Todo{
		OwnerID:   7,
		Title:     "buy milk",
		Repeat:    model.RepeatNever,
		Reminders: []model.Reminder{{At: at}},
	})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The reminder set is replaced wholesale inside the update transaction:
// delete every existing reminder for the todo, then insert exactly the
// submitted set. Running the same update with a second set leaves none of
// the first set behind.
func TestTodoRepository_Update_ReplacesReminderSetWholesale(t *testing.T) {
	repo, mock := newMockRepository(t)

	at := time.Date(2026, 9, 3, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(queryUpdateTodo).
		WithArgs("buy oat milk", "", nil, model.RepeatWeekly, true, int64(42), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(queryDeleteReminders).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(queryInsertReminder).
		WithArgs(int64(42), at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(200))
	mock.ExpectCommit()

	updated, mutated, err := repo.Update(context.Background(), model.Todo{
		ID:        42,
		OwnerID:   7,
		Title:     "buy oat milk",
		Repeat:    model.RepeatWeekly,
		Completed: true,
		Reminders: []model.Reminder{{At: at}},
	})

	assert.NoError(t, err)
	assert.True(t, mutated)
	require.Len(t, updated.Reminders, 1)
	assert.Equal(t, int64(200), updated.Reminders[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// An owner mismatch updates zero rows. The reminder statements must not run
// at all, so foreign reminder rows are never touched.
func TestTodoRepository_Update_OwnerMismatchSkipsReminderReplacement(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(queryUpdateTodo).
		WithArgs("buy oat milk", "", nil, model.RepeatNever, false, int64(42), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	updated, mutated, err := repo.Update(context.Background(), model.Todo{
		ID:        42,
		OwnerID:   99,
		Title:     "buy oat milk",
		Repeat:    model.RepeatNever,
		Reminders: []model.Reminder{{At: time.Date(2026, 9, 3, 9, 0, 0, 0, time.UTC)}},
	})

	assert.NoError(t, err)
	assert.False(t, mutated)
	assert.Equal(t, "buy oat milk", updated.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_Delete_RemovesRemindersAndTodo(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(queryDeleteOwnedReminders).
		WithArgs(int64(42), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(queryDeleteTodo).
		WithArgs(int64(42), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 7, 42)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Deleting a nonexistent or foreign-owned todo affects zero rows. The
// transaction rolls back, so the reminder delete that ran first leaves the
// store unchanged.
func TestTodoRepository_Delete_NotFoundRollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(queryDeleteOwnedReminders).
		WithArgs(int64(42), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(queryDeleteTodo).
		WithArgs(int64(42), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 99, 42)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
