package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Valex-Destigos/TooDoo/config"
	"github.com/Valex-Destigos/TooDoo/shared/timezone"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrMalformedToken = errors.New("malformed token")
	ErrMissingSecret  = errors.New("signing key is not configured")
)

// Claims represents the JWT claims structure. The authenticated user id is
// carried in the registered subject claim.
type Claims struct {
	jwt.RegisteredClaims
}

// JWT issues and verifies signed, time-bound bearer tokens. Tokens are valid
// until natural expiry; there is no server-side revocation list.
type JWT interface {
	Issue(userID int64) (string, error)
	Verify(tokenString string) (int64, error)
}

// Service handles JWT operations
type Service struct {
	config *config.Config
}

// New creates a new JWT service
func New(cfg *config.Config) JWT {
	return &Service{
		config: cfg,
	}
}

// Issue produces a signed token embedding the user id as subject and an
// expiry derived from configuration (24 hours by default).
func (s *Service) Issue(userID int64) (string, error) {
	if s.config.JWT.Secret == "" {
		return "", ErrMissingSecret
	}

	now := timezone.Now()
	expiresAt := now.Add(time.Duration(s.config.JWT.ExpireHours) * time.Hour)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.App.Name,
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(s.config.JWT.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks signature validity and expiry and returns the embedded user id.
func (s *Service) Verify(tokenString string) (int64, error) {
	if s.config.JWT.Secret == "" {
		return 0, ErrMissingSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(s.config.JWT.Secret), nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return 0, ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenExpired):
			return 0, ErrExpiredToken
		default:
			return 0, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return userID, nil
}

// ExtractTokenFromHeader extracts the JWT token from an Authorization header
// of the form "Bearer <token>".
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("authorization header is required")
	}

	const prefix = "Bearer "
	if len(authHeader) < len(prefix) || authHeader[:len(prefix)] != prefix {
		return "", errors.New("authorization header must start with 'Bearer '")
	}

	return authHeader[len(prefix):], nil
}
