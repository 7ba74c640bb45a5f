package dto

import (
	userModel "github.com/Valex-Destigos/TooDoo/internal/domains/user/model"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

func (r *RegisterRequest) ToUserModel(hashedPassword string) userModel.User {
	return userModel.User{
		Username: r.Username,
		Password: hashedPassword,
	}
}

// RegisterResponse is the public user view; the password hash is never echoed.
type RegisterResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func (r *RegisterResponse) FromModel(user userModel.User) {
	r.ID = user.ID
	r.Username = user.Username
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}
