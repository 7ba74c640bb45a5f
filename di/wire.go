//go:build wireinject
// +build wireinject

package di

import (
	"github.com/Valex-Destigos/TooDoo/config"
	"github.com/Valex-Destigos/TooDoo/infras/jwt"
	"github.com/Valex-Destigos/TooDoo/infras/kafka"
	"github.com/Valex-Destigos/TooDoo/infras/otel"
	"github.com/Valex-Destigos/TooDoo/infras/postgres"
	"github.com/Valex-Destigos/TooDoo/infras/redis"
	todoHandler "github.com/Valex-Destigos/TooDoo/internal/handlers/todo"
	"github.com/Valex-Destigos/TooDoo/shared/cache"
	"github.com/Valex-Destigos/TooDoo/transport/http"
	"github.com/Valex-Destigos/TooDoo/transport/http/middleware"
	"github.com/Valex-Destigos/TooDoo/transport/http/router"

	todoRepository "github.com/Valex-Destigos/TooDoo/internal/domains/todo/repository"
	todoService "github.com/Valex-Destigos/TooDoo/internal/domains/todo/service"

	"github.com/google/wire"

	authService "github.com/Valex-Destigos/TooDoo/internal/domains/auth/service"
	userRepository "github.com/Valex-Destigos/TooDoo/internal/domains/user/repository"
	authHandler "github.com/Valex-Destigos/TooDoo/internal/handlers/auth"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var todoDomain = wire.NewSet(
	todoRepository.New,
	todoService.New,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var domains = wire.NewSet(
	todoDomain,
	authDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	todoHandler.New,
	authHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
