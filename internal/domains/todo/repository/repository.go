package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/Valex-Destigos/TooDoo/infras/otel"
	"github.com/Valex-Destigos/TooDoo/infras/postgres"
	"github.com/Valex-Destigos/TooDoo/internal/domains/todo/model"
	"github.com/Valex-Destigos/TooDoo/shared/constant"
	"github.com/Valex-Destigos/TooDoo/shared/logger"
	"github.com/lib/pq"
)

var (
	ErrNotFound = errors.New("todo not found")
)

const (
	queryListTodos = `SELECT id, user_id, title, description, due, repeat, completed
		FROM todos WHERE user_id = $1 ORDER BY id`
	queryListReminders = `SELECT id, todo_id, reminder
		FROM reminders WHERE todo_id = ANY($1) ORDER BY todo_id, id`
	queryInsertTodo = `INSERT INTO todos (user_id, title, description, due, repeat, completed)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	queryInsertReminder = `INSERT INTO reminders (todo_id, reminder) VALUES ($1, $2) RETURNING id`
	queryUpdateTodo     = `UPDATE todos SET title = $1, description = $2, due = $3, repeat = $4, completed = $5
		WHERE id = $6 AND user_id = $7`
	queryDeleteReminders = `DELETE FROM reminders WHERE todo_id = $1`
	queryDeleteOwnedReminders = `DELETE FROM reminders
		WHERE todo_id IN (SELECT id FROM todos WHERE id = $1 AND user_id = $2)`
	queryDeleteTodo = `DELETE FROM todos WHERE id = $1 AND user_id = $2`
)

// Todo owns the transactional lifecycle of a todo item and its dependent
// reminder set. Every read and write is scoped by the owner id so no
// operation can observe or mutate another user's rows.
type Todo interface {
	List(ctx context.Context, ownerID int64) ([]model.Todo, error)
	Create(ctx context.Context, todo model.Todo) (model.Todo, error)
	Update(ctx context.Context, todo model.Todo) (model.Todo, bool, error)
	Delete(ctx context.Context, ownerID, todoID int64) error
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Todo {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

// List loads all todos for the owner, then all reminders belonging to those
// todos, and groups reminders under their parent with an explicit map keyed
// by todo id. One-shot snapshot, insertion order.
func (repo *repositoryImpl) List(ctx context.Context, ownerID int64) (todos []model.Todo, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".todo.List")
	defer scope.End()
	defer scope.TraceIfError(err)

	todos = []model.Todo{}

	if err = repo.db.Read.SelectContext(ctx, &todos, queryListTodos, ownerID); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get data (%s): %w", model.EntityName, err)
	}

	if len(todos) == 0 {
		return todos, nil
	}

	ids := make(pq.Int64Array, 0, len(todos))
	for _, todo := range todos {
		ids = append(ids, todo.ID)
	}

	var reminders []model.Reminder
	if err = repo.db.Read.SelectContext(ctx, &reminders, queryListReminders, ids); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get data (%s): %w", model.ReminderTableName, err)
	}

	grouped := make(map[int64][]model.Reminder, len(todos))
	for _, reminder := range reminders {
		grouped[reminder.TodoID] = append(grouped[reminder.TodoID], reminder)
	}

	for i := range todos {
		todos[i].Reminders = grouped[todos[i].ID]
		if todos[i].Reminders == nil {
			todos[i].Reminders = []model.Reminder{}
		}
	}

	return todos, nil
}

// Create inserts the todo row and its reminder rows in one transaction and
// returns the fully materialized todo including assigned ids.
func (repo *repositoryImpl) Create(ctx context.Context, todo model.Todo) (created model.Todo, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".todo.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return created, fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.GetContext(ctx, &todo.ID, queryInsertTodo,
		todo.OwnerID, todo.Title, todo.Description, todo.Due, todo.Repeat, todo.Completed)
	if err != nil {
		logger.ErrorWithStack(err)

		return created, fmt.Errorf("failed to insert data (%s): %w", model.EntityName, err)
	}

	for i := range todo.Reminders {
		todo.Reminders[i].TodoID = todo.ID

		err = tx.GetContext(ctx, &todo.Reminders[i].ID, queryInsertReminder, todo.ID, todo.Reminders[i].At)
		if err != nil {
			logger.ErrorWithStack(err)

			return created, fmt.Errorf("failed to insert data (%s): %w", model.ReminderTableName, err)
		}
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return created, fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return todo, nil
}

// Update replaces the todo row scoped to (owner, id) and its reminder set
// wholesale in one transaction. An owner mismatch updates zero rows, which is
// not an error by itself; the reminder replacement is skipped in that case so
// foreign rows are never touched. The boolean reports whether any row was
// actually mutated.
func (repo *repositoryImpl) Update(ctx context.Context, todo model.Todo) (updated model.Todo, mutated bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".todo.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return updated, false, fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, queryUpdateTodo,
		todo.Title, todo.Description, todo.Due, todo.Repeat, todo.Completed, todo.ID, todo.OwnerID)
	if err != nil {
		logger.ErrorWithStack(err)

		return updated, false, fmt.Errorf("failed to update data (%s): %w", model.EntityName, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)

		return updated, false, fmt.Errorf("failed to update data (%s): %w", model.EntityName, err)
	}

	if rows > 0 {
		if _, err = tx.ExecContext(ctx, queryDeleteReminders, todo.ID); err != nil {
			logger.ErrorWithStack(err)

			return updated, false, fmt.Errorf("failed to delete data (%s): %w", model.ReminderTableName, err)
		}

		for i := range todo.Reminders {
			todo.Reminders[i].TodoID = todo.ID

			err = tx.GetContext(ctx, &todo.Reminders[i].ID, queryInsertReminder, todo.ID, todo.Reminders[i].At)
			if err != nil {
				logger.ErrorWithStack(err)

				return updated, false, fmt.Errorf("failed to insert data (%s): %w", model.ReminderTableName, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return updated, false, fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return todo, rows > 0, nil
}

// Delete removes the todo row scoped to (owner, id) and its reminders in one
// transaction. Zero rows affected means not found; ownership mismatch and
// nonexistence are indistinguishable to the caller.
func (repo *repositoryImpl) Delete(ctx context.Context, ownerID, todoID int64) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".todo.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, queryDeleteOwnedReminders, todoID, ownerID); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to delete data (%s): %w", model.ReminderTableName, err)
	}

	res, err := tx.ExecContext(ctx, queryDeleteTodo, todoID, ownerID)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to delete data (%s): %w", model.EntityName, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to delete data (%s): %w", model.EntityName, err)
	}

	if rows == 0 {
		err = ErrNotFound

		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return nil
}
