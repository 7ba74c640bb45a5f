package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Valex-Destigos/TooDoo/config"
	"github.com/Valex-Destigos/TooDoo/infras/jwt"
	"github.com/Valex-Destigos/TooDoo/infras/kafka"
	"github.com/Valex-Destigos/TooDoo/infras/otel"
	"github.com/Valex-Destigos/TooDoo/internal/domains/auth/model/dto"
	userRepo "github.com/Valex-Destigos/TooDoo/internal/domains/user/repository"
	"github.com/Valex-Destigos/TooDoo/shared/constant"
	"github.com/Valex-Destigos/TooDoo/shared/failure"
	"github.com/Valex-Destigos/TooDoo/shared/password"

	"github.com/rs/zerolog/log"
)

const (
	eventUserRegistered = "user.registered"
)

type userEvent struct {
	Action   string `json:"action"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Auth registers new accounts and authenticates login attempts. Registration
// enforces username uniqueness atomically with password hashing; login issues
// a stateless bearer token.
type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.RegisterResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
}

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
	events     kafka.Client
}

func New(userRepo userRepo.User, cfg *config.Config, otel otel.Otel, jwtService jwt.JWT, events kafka.Client) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwtService,
		events:     events,
	}
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res dto.RegisterResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer scope.TraceIfError(err)

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, req.ToUserModel(hashedPassword))
	if err != nil {
		if errors.Is(err, userRepo.ErrUsernameTaken) {
			return res, failure.BadRequestFromString("username already taken")
		}

		log.Error().Err(err).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", err)
	}

	event := kafka.Message{
		Key: fmt.Sprintf("user-%d", user.ID),
		Value: userEvent{
			Action:   eventUserRegistered,
			UserID:   user.ID,
			Username: user.Username,
		},
	}

	if err := s.events.SendMessages(ctx, s.cfg.Kafka.EventsTopic, event); err != nil {
		log.Error().Err(err).Msg("failed to publish user event")
	}

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			log.Warn().Str("username", req.Username).Msg("login attempt with unknown username")

			// Unknown username and wrong password collapse to the same
			// response to avoid username enumeration.
			return res, failure.NotFound("invalid username or password")
		}

		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := password.Verify(req.Password, user.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to verify password")

		return res, fmt.Errorf("failed to verify password: %w", err)
	}

	if !ok {
		log.Warn().Str("username", req.Username).Msg("login attempt with wrong password")

		return res, failure.NotFound("invalid username or password")
	}

	token, err := s.jwtService.Issue(user.ID)
	if err != nil {
		if errors.Is(err, jwt.ErrMissingSecret) {
			return res, failure.MissingConfig
		}

		log.Error().Err(err).Msg("failed to issue token")

		return res, fmt.Errorf("failed to issue token: %w", err)
	}

	res.Token = token

	return res, nil
}
