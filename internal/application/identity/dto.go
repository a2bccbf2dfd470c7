package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/identity"
	"github.com/pdv/backend/internal/infrastructure/auth"
)

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// RefreshRequest is the body of POST /auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest is the optional body of POST /auth/logout
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	FullName string `json:"fullName" binding:"required,min=1,max=200"`
	Role     string `json:"role" binding:"required,oneof=admin manager cashier"`
}

// ChangePasswordRequest is the body of POST /auth/change-password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=72"`
}

// UpdateStatusRequest enables or disables a user
type UpdateStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// UserListFilter holds the query parameters of GET /users
type UserListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"orderBy" binding:"omitempty,oneof=created_at updated_at email full_name role last_login_at"`
	OrderDir string `form:"orderDir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search" binding:"max=100"`
	Role     string `form:"role" binding:"omitempty,oneof=admin manager cashier"`
	Active   *bool  `form:"active"`
}

// UserResponse is the public view of a user. It never carries the password hash.
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"fullName"`
	Role        string     `json:"role"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TokenResponse is returned by login and refresh
type TokenResponse struct {
	AccessToken           string        `json:"accessToken"`
	RefreshToken          string        `json:"refreshToken"`
	ExpiresIn             int64         `json:"expiresIn"`
	TokenType             string        `json:"tokenType"`
	AccessTokenExpiresAt  time.Time     `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time     `json:"refreshTokenExpiresAt"`
	User                  *UserResponse `json:"user,omitempty"`
}

// StatusChange carries a user before and after an enable/disable
type StatusChange struct {
	Before UserResponse
	After  UserResponse
}

// ToUserResponse converts a domain user
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        u.Role.String(),
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func toTokenResponse(pair *auth.TokenPair, user *identity.User) *TokenResponse {
	resp := &TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		ExpiresIn:             pair.ExpiresIn,
		TokenType:             pair.TokenType,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
	}
	if user != nil {
		u := ToUserResponse(user)
		resp.User = &u
	}
	return resp
}
