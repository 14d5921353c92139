package models

import (
	"time"

	"github.com/google/uuid"
)

// Role — роль пользователя в системе.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Status — статус учётной записи.
// Вход в систему разрешён только для StatusActive; остальные статусы
// выставляются административными путями (вне ядра сервиса).
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

// User — модель пользователя в системе.
//
// PasswordHash хранится только внутри сервиса и никогда не попадает
// в ответы API: транспортный слой сериализует урезанное представление.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Status       Status
	// LastLogin — момент последнего успешного входа (UTC); nil до первого входа.
	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
