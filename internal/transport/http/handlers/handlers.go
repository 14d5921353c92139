package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"auth-backend/internal/models"
	"auth-backend/internal/service"

	"github.com/google/uuid"
)

// AuthService — контракт сервисного слоя, используемый хендлерами.
// Выделен интерфейсом ради подмены в тестах.
type AuthService interface {
	RegisterUser(ctx context.Context, name, email, password string) (*models.User, error)
	LoginUser(ctx context.Context, email, password string) (*models.User, *models.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input service.UpdateProfileInput) (*models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

// Handlers агрегирует зависимости хендлеров.
type Handlers struct {
	svc AuthService
}

func New(svc AuthService) *Handlers {
	return &Handlers{svc: svc}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через httperr.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}
