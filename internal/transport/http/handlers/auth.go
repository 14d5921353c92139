package handlers

import (
	"fmt"
	"net/http"

	"auth-backend/internal/service"
	"auth-backend/internal/transport/http/httperr"
	"auth-backend/internal/transport/http/middleware"
	apimodels "auth-backend/internal/transport/http/models"
)

// RegisterUser — POST /auth/register.
func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in apimodels.RegisterRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteError(w, r, httperr.ErrInvalidBody)
		return
	}

	user, err := h.svc.RegisterUser(r.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, apimodels.UserResponse{User: apimodels.FromUser(user)})
}

// LoginUser — POST /auth/login.
func (h *Handlers) LoginUser(w http.ResponseWriter, r *http.Request) {
	var in apimodels.LoginRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteError(w, r, httperr.ErrInvalidBody)
		return
	}

	user, pair, err := h.svc.LoginUser(r.Context(), in.Email, in.Password)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, apimodels.LoginResponse{
		User:   apimodels.FromUser(user),
		Tokens: apimodels.FromTokenPair(pair),
	})
}

// RefreshToken — POST /auth/refresh-token.
// Отсутствующий refresh-токен — 400 (а не 401): клиент прислал неполный
// запрос, а не невалидный токен.
func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var in apimodels.RefreshRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteError(w, r, httperr.ErrInvalidBody)
		return
	}

	if in.RefreshToken == "" {
		httperr.WriteError(w, r, fmt.Errorf("refresh token is required: %w", httperr.ErrInvalidBody))
		return
	}

	pair, err := h.svc.RefreshToken(r.Context(), in.RefreshToken)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, apimodels.TokensResponse{Tokens: apimodels.FromTokenPair(pair)})
}

// Logout — POST /auth/logout. Требует bearer-токен (роут за Auth-мидлваром);
// сам отзыв best-effort: пустой токен — no-op.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.TokenFrom(r.Context())

	if err := h.svc.Logout(r.Context(), token); err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, apimodels.StatusResponse{Status: "success"})
}

// Profile — GET /auth/profile.
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httperr.WriteError(w, r, service.ErrTokenRequired)
		return
	}

	user, err := h.svc.Profile(r.Context(), claims.UserID)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, apimodels.UserResponse{User: apimodels.FromUser(user)})
}

// UpdateProfile — PUT /auth/profile.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httperr.WriteError(w, r, service.ErrTokenRequired)
		return
	}

	var in apimodels.UpdateProfileRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteError(w, r, httperr.ErrInvalidBody)
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), claims.UserID, service.UpdateProfileInput{
		Name:  in.Name,
		Email: in.Email,
	})
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, apimodels.UserResponse{User: apimodels.FromUser(user)})
}

// ChangePassword — PUT /auth/change-password.
func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httperr.WriteError(w, r, service.ErrTokenRequired)
		return
	}

	var in apimodels.ChangePasswordRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteError(w, r, httperr.ErrInvalidBody)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), claims.UserID, in.CurrentPassword, in.NewPassword); err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, apimodels.StatusResponse{Status: "success"})
}
