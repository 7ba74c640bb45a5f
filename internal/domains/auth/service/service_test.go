package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/Valex-Destigos/TooDoo/config"
	"github.com/Valex-Destigos/TooDoo/infras/jwt"
	jwtMocks "github.com/Valex-Destigos/TooDoo/infras/jwt/mocks"
	kafkaMocks "github.com/Valex-Destigos/TooDoo/infras/kafka/mocks"
	"github.com/Valex-Destigos/TooDoo/infras/otel/mocks"
	"github.com/Valex-Destigos/TooDoo/internal/domains/auth/model/dto"
	"github.com/Valex-Destigos/TooDoo/internal/domains/auth/service"
	userMocks "github.com/Valex-Destigos/TooDoo/internal/domains/user/mocks"
	userModel "github.com/Valex-Destigos/TooDoo/internal/domains/user/model"
	userRepo "github.com/Valex-Destigos/TooDoo/internal/domains/user/repository"
	"github.com/Valex-Destigos/TooDoo/shared/failure"
	"github.com/Valex-Destigos/TooDoo/shared/password"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockEvents := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	// Event publication is asynchronous and best-effort.
	mockEvents.EXPECT().
		SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	svc := service.New(mockUserRepo, cfg, mockOtel, mockJWT, mockEvents)

	tests := []struct {
		name         string
		req          dto.RegisterRequest
		setupMock    func()
		wantErr      bool
		wantErrCode  int
		wantUsername string
	}{
		{
			name: "successful registration",
			req: dto.RegisterRequest{
				Username: "alice",
				Password: "pw1",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user userModel.User) (userModel.User, error) {
						user.ID = 1

						return user, nil
					})
			},
			wantUsername: "alice",
		},
		{
			name: "username already taken",
			req: dto.RegisterRequest{
				Username: "alice",
				Password: "pw1",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(userModel.User{}, userRepo.ErrUsernameTaken)
			},
			wantErr:     true,
			wantErrCode: http.StatusBadRequest,
		},
		{
			name: "store failure",
			req: dto.RegisterRequest{
				Username: "alice",
				Password: "pw1",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(userModel.User{}, errors.New("connection refused"))
			},
			wantErr:     true,
			wantErrCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Register(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantErrCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantUsername, res.Username)
			assert.NotZero(t, res.ID)
		})
	}
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockEvents := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	mockEvents.EXPECT().
		SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	var stored userModel.User

	mockUserRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, user userModel.User) (userModel.User, error) {
			stored = user
			user.ID = 1

			return user, nil
		})

	svc := service.New(mockUserRepo, &config.Config{}, mockOtel, mockJWT, mockEvents)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "alice",
		Password: "secret",
	})

	assert.NoError(t, err)
	assert.NotEqual(t, "secret", stored.Password)

	ok, err := password.Verify("secret", stored.Password)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockEvents := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockUserRepo, cfg, mockOtel, mockJWT, mockEvents)

	hashed, err := password.Hash("password")
	if err != nil {
		t.Fatalf("unexpected error hashing fixture password: %v", err)
	}

	validUser := userModel.User{
		ID:       1,
		Username: "alice",
		Password: hashed,
	}

	tests := []struct {
		name        string
		req         dto.LoginRequest
		setupMock   func()
		wantErr     bool
		wantErrCode int
		wantToken   string
	}{
		{
			name: "successful login",
			req: dto.LoginRequest{
				Username: "alice",
				Password: "password",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					GetByUsername(gomock.Any(), "alice").
					Return(validUser, nil)

				mockJWT.EXPECT().
					Issue(validUser.ID).
					Return("signed-token", nil)
			},
			wantToken: "signed-token",
		},
		{
			name: "unknown username",
			req: dto.LoginRequest{
				Username: "nobody",
				Password: "password",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					GetByUsername(gomock.Any(), "nobody").
					Return(userModel.User{}, userRepo.ErrNotFound)
			},
			wantErr:     true,
			wantErrCode: http.StatusNotFound,
		},
		{
			name: "wrong password",
			req: dto.LoginRequest{
				Username: "alice",
				Password: "wrongpassword",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					GetByUsername(gomock.Any(), "alice").
					Return(validUser, nil)
			},
			wantErr:     true,
			wantErrCode: http.StatusNotFound,
		},
		{
			name: "store failure",
			req: dto.LoginRequest{
				Username: "alice",
				Password: "password",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					GetByUsername(gomock.Any(), "alice").
					Return(userModel.User{}, errors.New("connection refused"))
			},
			wantErr:     true,
			wantErrCode: http.StatusInternalServerError,
		},
		{
			name: "missing signing secret",
			req: dto.LoginRequest{
				Username: "alice",
				Password: "password",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					GetByUsername(gomock.Any(), "alice").
					Return(validUser, nil)

				mockJWT.EXPECT().
					Issue(validUser.ID).
					Return("", jwt.ErrMissingSecret)
			},
			wantErr:     true,
			wantErrCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Login(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantErrCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantToken, res.Token)
		})
	}
}

func TestAuthService_Login_SameErrorForUnknownUserAndWrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockEvents := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockUserRepo, &config.Config{}, mockOtel, mockJWT, mockEvents)

	hashed, err := password.Hash("password")
	if err != nil {
		t.Fatalf("unexpected error hashing fixture password: %v", err)
	}

	mockUserRepo.EXPECT().
		GetByUsername(gomock.Any(), "nobody").
		Return(userModel.User{}, userRepo.ErrNotFound)

	_, unknownErr := svc.Login(context.Background(), dto.LoginRequest{Username: "nobody", Password: "password"})

	mockUserRepo.EXPECT().
		GetByUsername(gomock.Any(), "alice").
		Return(userModel.User{ID: 1, Username: "alice", Password: hashed}, nil)

	_, wrongPassErr := svc.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "nope"})

	// An attacker probing for usernames should not be able to tell the two
	// cases apart.
	assert.Error(t, unknownErr)
	assert.Error(t, wrongPassErr)
	assert.Equal(t, unknownErr.Error(), wrongPassErr.Error())
	assert.Equal(t, failure.GetCode(unknownErr), failure.GetCode(wrongPassErr))
}
