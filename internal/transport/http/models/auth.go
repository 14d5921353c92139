// models содержит формы запросов/ответов HTTP API и конвертеры
// из доменных моделей. Имена JSON-полей — camelCase, как их ожидают клиенты.
package models

import (
	"time"

	"auth-backend/internal/models"
)

// RegisterRequest — тело POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest — тело POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest — тело POST /auth/refresh-token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UpdateProfileRequest — тело PUT /auth/profile; nil-поле не изменяется.
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// ChangePasswordRequest — тело PUT /auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// User — урезанное (без хэша пароля) представление пользователя.
// Единственная форма, в которой пользователь покидает сервис.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Tokens — пара токенов в ответах login/refresh.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserResponse — ответ register/profile.
type UserResponse struct {
	User User `json:"user"`
}

// LoginResponse — ответ login.
type LoginResponse struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}

// TokensResponse — ответ refresh-token.
type TokensResponse struct {
	Tokens Tokens `json:"tokens"`
}

// StatusResponse — ответ операций без полезной нагрузки (logout, change-password).
type StatusResponse struct {
	Status string `json:"status"`
}

// FromUser конвертирует доменную модель в урезанное API-представление.
func FromUser(u *models.User) User {
	return User{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Status:    string(u.Status),
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// FromTokenPair конвертирует пару токенов в API-представление.
func FromTokenPair(p *models.TokenPair) Tokens {
	return Tokens{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
	}
}
