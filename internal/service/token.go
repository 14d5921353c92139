package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"auth-backend/internal/models"
	"auth-backend/internal/pkg/log"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// accessClaims — закрытая форма payload access-токена.
type accessClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// refreshClaims — закрытая форма payload refresh-токена.
// От access-токена отличается только составом claims: подписываются оба
// одним секретом и алгоритмом.
type refreshClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// TokenClaims — данные аутентифицированного пользователя,
// извлечённые из валидного access-токена.
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	Role      models.Role
	ExpiresAt time.Time
}

// generateAccessToken генерирует access-токен.
func (s *Service) generateAccessToken(ctx context.Context, user *models.User, now time.Time) (string, error) {
	const op = "service.token.generateAccessToken"

	lg := log.From(ctx)

	claims := accessClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   user.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		lg.Error("access_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// generateRefreshToken генерирует refresh-токен.
func (s *Service) generateRefreshToken(ctx context.Context, userID uuid.UUID, now time.Time) (string, error) {
	const op = "service.token.generateRefreshToken"

	lg := log.From(ctx)

	claims := refreshClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		lg.Error("refresh_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// classifyTokenError переводит ошибки jwt/v5 в сентинелы сервиса.
// Три класса отказа (истёк/не разбирается/битая подпись) различимы для
// вызывающего кода; транспорт схлопывает их в единый 401.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenSignature
	default:
		return ErrInvalidToken
	}
}

// parseAccessToken валидирует access-токен и возвращает его claims.
func (s *Service) parseAccessToken(tokenStr string) (*accessClaims, error) {
	const op = "service.token.parseAccessToken"

	token, err := jwt.ParseWithClaims(tokenStr, &accessClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classifyTokenError(err))
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}

// parseRefreshToken валидирует refresh-токен и возвращает ID пользователя.
func (s *Service) parseRefreshToken(tokenStr string) (uuid.UUID, error) {
	const op = "service.token.parseRefreshToken"

	token, err := jwt.ParseWithClaims(tokenStr, &refreshClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, classifyTokenError(err))
	}

	claims, ok := token.Claims.(*refreshClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return uid, nil
}

// CheckAccessToken проверяет access-токен для авторизации запроса:
// сначала чёрный список (отозванный токен криптографически всё ещё валиден),
// затем подпись/срок. Возвращает данные пользователя из claims.
func (s *Service) CheckAccessToken(ctx context.Context, accessToken string) (TokenClaims, error) {
	const op = "service.token.CheckAccessToken"

	lg := log.From(ctx)

	if accessToken == "" {
		return TokenClaims{}, fmt.Errorf("%s: %w", op, ErrTokenRequired)
	}

	revoked, err := s.ledger.Contains(ctx, accessToken)
	if err != nil {
		lg.Error("blacklist_lookup_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return TokenClaims{}, fmt.Errorf("%s: %w", op, err)
	}

	if revoked {
		return TokenClaims{}, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	claims, err := s.parseAccessToken(accessToken)
	if err != nil {
		return TokenClaims{}, fmt.Errorf("%s: %w", op, err)
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return TokenClaims{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return TokenClaims{
		UserID:    uid,
		Email:     claims.Email,
		Role:      models.Role(claims.Role),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// issueTokenPair выпускает новую пару access+refresh токенов.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	const op = "service.token.issueTokenPair"

	now := time.Now().UTC()

	accessToken, err := s.generateAccessToken(ctx, user, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := s.generateRefreshToken(ctx, user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessExpiresAt: now.Add(s.cfg.AccessTokenTTL),
	}, nil
}
