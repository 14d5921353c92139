package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"auth-backend/internal/models"
	"auth-backend/internal/pkg/log"
	"auth-backend/internal/pkg/redact"
	"auth-backend/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UpdateProfileInput — частичное обновление профиля.
// nil-поле означает "не менять"; хотя бы одно поле должно быть задано.
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

// RegisterUser регистрирует нового пользователя.
// Новая запись получает role=USER и status=ACTIVE; возвращается модель
// с заполненным PasswordHash — транспортный слой обязан его не сериализовать.
func (s *Service) RegisterUser(ctx context.Context, name, email, password string) (*models.User, error) {
	const op = "service.auth.RegisterUser"

	normName, err := validateName(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.storage.UserByEmail(ctx, normEmail)
	if err == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := s.hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Name:         normName,
		Email:        normEmail,
		PasswordHash: hashedPassword,
		Role:         models.RoleUser,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		// Гонка двух регистраций на один email разрешается уникальным
		// констрейнтом БД: проигравший получает ErrEmailTaken.
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("user_registered",
		slog.String("op", op),
		slog.String("user_id", user.ID.String()),
		slog.String("email", redact.Email(user.Email)),
	)

	return user, nil
}

// LoginUser выполняет вход по email+пароль.
// Для неизвестного email и неверного пароля возвращается одна и та же
// ошибка ErrInvalidCredentials; проверка статуса учётной записи выполняется
// до сравнения пароля, обе — до выпуска токенов.
func (s *Service) LoginUser(ctx context.Context, email, password string) (*models.User, *models.TokenPair, error) {
	const op = "service.auth.LoginUser"

	lg := log.From(ctx)

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if len(password) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if user.Status != models.StatusActive {
		lg.Warn("login_inactive_account",
			slog.String("op", op),
			slog.String("user_id", user.ID.String()),
		)
		return nil, nil, fmt.Errorf("%s: %w", op, ErrAccountInactive)
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	now := time.Now().UTC()
	if err := s.storage.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	user.LastLogin = &now

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("user_logged_in",
		slog.String("op", op),
		slog.String("user_id", user.ID.String()),
	)

	return user, pair, nil
}

// RefreshToken обновляет пару токенов по refresh-токену.
// Любая причина отказа (битый/просроченный токен, пользователь исчез или
// неактивен) схлопывается в ErrInvalidToken: вызывающий не должен отличать
// эти случаи. Старый refresh-токен не отзывается и остаётся валиден до
// естественного истечения.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	const op = "service.auth.RefreshToken"

	uid, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	user, err := s.storage.UserByID(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if user.Status != models.StatusActive {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, nil
}

// Logout отзывает access-токен через чёрный список.
// Пустой токен — no-op (отзыв best-effort). TTL записи равен остатку
// жизни токена, поэтому запись не переживает токен и не исчезает раньше него.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	const op = "service.auth.Logout"

	if accessToken == "" {
		return nil
	}

	claims, err := s.parseAccessToken(accessToken)
	if err != nil {
		// Просроченный токен отзывать незачем: verify его уже не пропустит.
		if errors.Is(err, ErrTokenExpired) {
			return nil
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.ledger.Add(ctx, accessToken, ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("user_logged_out",
		slog.String("op", op),
		slog.String("user_id", claims.UserID),
	)

	return nil
}

// Profile возвращает пользователя по ID.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	const op = "service.auth.Profile"

	user, err := s.storage.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UpdateProfile применяет частичное обновление профиля.
// Уникальность email на обновлении обеспечивается констрейнтом БД;
// нарушение возвращается как ErrEmailTaken.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	const op = "service.auth.UpdateProfile"

	if input.Name == nil && input.Email == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyUpdate)
	}

	upd := storage.UserUpdate{}

	if input.Name != nil {
		normName, err := validateName(*input.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		upd.Name = &normName
	}

	if input.Email != nil {
		normEmail, err := validateEmail(*input.Email)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
		}
		upd.Email = &normEmail
	}

	user, err := s.storage.UpdateUser(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// ChangePassword меняет пароль пользователя после проверки текущего.
// Ранее выданные access-токены при этом не отзываются: они остаются валидны
// до естественного истечения (осознанное ограничение дизайна).
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	const op = "service.auth.ChangePassword"

	if err := validatePassword(newPassword); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.PasswordHash, currentPassword) {
		return fmt.Errorf("%s: %w", op, ErrWrongPassword)
	}

	hashedPassword, err := s.hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdatePassword(ctx, userID, hashedPassword, time.Now().UTC()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("password_changed",
		slog.String("op", op),
		slog.String("user_id", userID.String()),
	)

	return nil
}

// bcrypt учитывает только первые 72 байта входа. Политика допускает пароли
// до 128 символов, поэтому более длинный пароль усекается до 72 байт —
// одинаково при хэшировании и при проверке.
const bcryptMaxPasswordBytes = 72

func bcryptInput(password string) []byte {
	b := []byte(password)
	if len(b) > bcryptMaxPasswordBytes {
		b = b[:bcryptMaxPasswordBytes]
	}

	return b
}

// hashPassword хэширует пароль с помощью bcrypt с настраиваемым cost-фактором.
func (s *Service) hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	cost := s.cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	bytes, err := bcrypt.GenerateFromPassword(bcryptInput(password), cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password)) == nil
}

// validateName проверяет имя (2..100 символов после обрезки пробелов).
func validateName(raw string) (string, error) {
	const op = "service.auth.validateName"

	name := strings.TrimSpace(raw)
	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidName)
	}

	return name, nil
}

// validateEmail проверяет базовый формат email и обрезает пробелы снаружи.
func validateEmail(raw string) (string, error) {
	const op = "service.auth.validateEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	return strings.ToLower(email), nil
}

// validatePassword проверяет минимальные требования к паролю.
// Политика: длина 8..128, хотя бы одна строчная, заглавная, цифра и спецсимвол.
func validatePassword(pw string) error {
	const op = "service.auth.validatePassword"

	if len(pw) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	if n := len([]rune(pw)); n < 8 || n > 128 {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !(hasLower && hasUpper && hasDigit && hasSpecial) {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	return nil
}
