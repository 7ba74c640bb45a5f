package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Valex-Destigos/TooDoo/infras/otel"
	"github.com/Valex-Destigos/TooDoo/infras/postgres"
	"github.com/Valex-Destigos/TooDoo/internal/domains/user/model"
	"github.com/Valex-Destigos/TooDoo/shared/constant"
	"github.com/Valex-Destigos/TooDoo/shared/logger"
	"github.com/lib/pq"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrNotFound      = errors.New("user not found")
)

const (
	queryExistsByUsername = `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	queryInsertUser       = `INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id`
	queryGetByUsername    = `SELECT id, username, password FROM users WHERE username = $1`
)

type User interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

// Create inserts a new user inside one transaction. The in-transaction
// existence check gives a friendly error for the common case; the UNIQUE
// constraint on username closes the race between concurrent registrations,
// so a unique violation from the insert also maps to ErrUsernameTaken.
func (repo *repositoryImpl) Create(ctx context.Context, user model.User) (created model.User, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.Create")
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

	var taken bool
	if err = tx.GetContext(ctx, &taken, queryExistsByUsername, user.Username); err != nil {
		logger.ErrorWithStack(err)

		return created, fmt.Errorf("failed to check username (%s): %w", model.EntityName, err)
	}

	if taken {
		err = ErrUsernameTaken

		return created, err
	}

	if err = tx.GetContext(ctx, &user.ID, queryInsertUser, user.Username, user.Password); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			err = ErrUsernameTaken

			return created, err
		}

		logger.ErrorWithStack(err)

		return created, fmt.Errorf("failed to insert data (%s): %w", model.EntityName, err)
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return created, fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return user, nil
}

func (repo *repositoryImpl) GetByUsername(ctx context.Context, username string) (user model.User, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.GetByUsername")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = repo.db.Read.GetContext(ctx, &user, queryGetByUsername, username)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound

		return user, err
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return user, fmt.Errorf("failed to get data (%s): %w", model.EntityName, err)
	}

	return user, nil
}
