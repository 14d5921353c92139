package storage

import (
	"context"
	"errors"
	"time"

	"auth-backend/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound — запись не найдена (пользователь).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email).
	ErrAlreadyExists = errors.New("already exists")
)

// UserUpdate — частичное обновление профиля.
// nil-поле означает "не менять".
type UserUpdate struct {
	Name  *string
	Email *string
}

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создает нового пользователя в БД.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail находит пользователя по email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// UpdateLastLogin фиксирует момент успешного входа.
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	// UpdateUser применяет частичное обновление профиля и возвращает свежую запись.
	UpdateUser(ctx context.Context, id uuid.UUID, upd UserUpdate) (*models.User, error)
	// UpdatePassword заменяет хэш пароля пользователя.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, at time.Time) error
}

// Storage задает контракт работы с БД.
type Storage interface {
	UserStorage
	Close()
}
