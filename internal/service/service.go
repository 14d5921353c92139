// service содержит бизнес-логику сервиса аутентификации:
// регистрацию/вход пользователей, выпуск/проверку токенов, отзыв токенов
// через чёрный список и операции над профилем.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданные хранилище (storage.Storage) и чёрный список
//     (blacklist.Ledger) потокобезопасны.
//   - Ошибки возвращаются сентинелами и далее маппятся транспортом на
//     HTTP-статусы (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"auth-backend/internal/blacklist"
	"auth-backend/internal/config"
	"auth-backend/internal/storage"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// Сообщение одинаково для обоих случаев, чтобы не раскрывать существование
	// учётной записи. Транспорт: 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountInactive — учётная запись не в статусе ACTIVE. Транспорт: 401.
	ErrAccountInactive = errors.New("account is not active")

	// ErrEmailTaken — e-mail уже занят другим пользователем. Транспорт: 409.
	ErrEmailTaken = errors.New("email already taken")

	// ErrUserNotFound — пользователь отсутствует в хранилище. Транспорт: 404.
	ErrUserNotFound = errors.New("user not found")

	// ErrWrongPassword — текущий пароль при смене указан неверно. Транспорт: 400.
	ErrWrongPassword = errors.New("current password is incorrect")

	// ErrTokenRequired — в запросе отсутствует bearer-токен. Транспорт: 401.
	ErrTokenRequired = errors.New("access token required")

	// ErrInvalidToken — токен не прошёл верификацию по иной причине,
	// чем истечение/формат/подпись (например, неожиданная форма claims).
	// Транспорт: 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. Транспорт: 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenMalformed — строка токена не разбирается как JWT. Транспорт: 401.
	ErrTokenMalformed = errors.New("token malformed")

	// ErrTokenSignature — подпись токена не совпадает с секретом. Транспорт: 401.
	ErrTokenSignature = errors.New("token signature invalid")

	// ErrTokenRevoked — токен отозван (logout) и недействителен независимо
	// от срока. Транспорт: 401.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrForbidden — роль пользователя не входит в разрешённый набор. Транспорт: 403.
	ErrForbidden = errors.New("insufficient permissions")

	// ErrInvalidName — имя не проходит политику валидации (2..100 символов).
	// Транспорт: 400.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidEmail — e-mail имеет некорректный формат. Транспорт: 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword — пароль не удовлетворяет политикам сложности. Транспорт: 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой. Транспорт: 400.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrEmptyUpdate — в частичном обновлении профиля не задано ни одно поле.
	// Транспорт: 400.
	ErrEmptyUpdate = errors.New("at least one field must be provided")
)

// Service описывает бизнес-логику сервиса аутентификации.
type Service struct {
	storage storage.Storage
	ledger  blacklist.Ledger
	cfg     config.AuthConfig
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, ledger blacklist.Ledger, cfg config.AuthConfig) *Service {
	return &Service{
		storage: storage,
		ledger:  ledger,
		cfg:     cfg,
	}
}
