package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/Valex-Destigos/TooDoo/infras/jwt"
	"github.com/Valex-Destigos/TooDoo/infras/otel"
	"github.com/Valex-Destigos/TooDoo/shared/constant"
	"github.com/Valex-Destigos/TooDoo/shared/failure"
	"github.com/Valex-Destigos/TooDoo/transport/http/response"
)

// Auth guards routes that require a signed bearer token.
type Auth interface {
	Auth(http.Handler) http.Handler
}

type authImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
}

func NewAuthMiddleware(jwtService jwt.JWT, ot otel.Otel) Auth {
	return &authImpl{
		jwtService: jwtService,
		otel:       ot,
	}
}

// Auth validates the Authorization header and puts the authenticated user id
// in the request context. Requests without a valid token never reach the
// handler.
func (m *authImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       request.URL.Path,
			"http.method":     request.Method,
		})

		authHeader := request.Header.Get(constant.RequestHeaderAuthorization)
		if authHeader == "" {
			err := failure.MissingAuthToken
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		tokenString, err := jwt.ExtractTokenFromHeader(authHeader)
		if err != nil {
			err := failure.Unauthorized("invalid authorization header format")
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		userID, err := m.jwtService.Verify(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrMissingSecret) {
				response.WithError(writer, failure.MissingConfig)

				scope.TraceError(err)
				scope.End()

				return
			}

			var message string

			switch {
			case errors.Is(err, jwt.ErrExpiredToken):
				message = "token has expired"
			case errors.Is(err, jwt.ErrMalformedToken):
				message = "malformed token"
			default:
				message = "invalid token"
			}

			err := failure.Unauthorized(message)
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		ctx = context.WithValue(ctx, constant.ContextKeyUserID, userID)

		scope.End()

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
