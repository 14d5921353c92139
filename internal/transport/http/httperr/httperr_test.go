package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"auth-backend/internal/service"

	"github.com/stretchr/testify/require"
)

func TestToHTTP_Mapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"nil error", nil, http.StatusInternalServerError, "internal", "internal server error"},
		{"invalid body", ErrInvalidBody, http.StatusBadRequest, "invalid_argument", "invalid request body"},
		{"invalid name", service.ErrInvalidName, http.StatusBadRequest, "invalid_argument", "invalid name"},
		{"invalid email", service.ErrInvalidEmail, http.StatusBadRequest, "invalid_argument", "invalid email format"},
		{"weak password", service.ErrWeakPassword, http.StatusBadRequest, "invalid_argument", "password is too weak"},
		{"empty update", service.ErrEmptyUpdate, http.StatusBadRequest, "invalid_argument", "at least one field must be provided"},
		{"wrong password", service.ErrWrongPassword, http.StatusBadRequest, "wrong_password", "current password is incorrect"},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "unauthenticated", "invalid credentials"},
		{"inactive account", service.ErrAccountInactive, http.StatusUnauthorized, "unauthenticated", "account is not active"},
		{"token required", service.ErrTokenRequired, http.StatusUnauthorized, "unauthenticated", "unauthenticated"},
		{"invalid token", service.ErrInvalidToken, http.StatusUnauthorized, "unauthenticated", "unauthenticated"},
		{"expired token", service.ErrTokenExpired, http.StatusUnauthorized, "unauthenticated", "unauthenticated"},
		{"malformed token", service.ErrTokenMalformed, http.StatusUnauthorized, "unauthenticated", "unauthenticated"},
		{"bad signature", service.ErrTokenSignature, http.StatusUnauthorized, "unauthenticated", "unauthenticated"},
		{"revoked token", service.ErrTokenRevoked, http.StatusUnauthorized, "unauthenticated", "unauthenticated"},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, "permission_denied", "insufficient permissions"},
		{"user not found", service.ErrUserNotFound, http.StatusNotFound, "not_found", "user not found"},
		{"email taken", service.ErrEmailTaken, http.StatusConflict, "already_exists", "email already taken"},
		{"canceled", context.Canceled, StatusClientClosedRequest, "canceled", "canceled"},
		{"deadline exceeded", context.DeadlineExceeded, http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "internal", "internal server error"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			status, resp := ToHTTP(tc.err)
			require.Equal(t, tc.wantStatus, status)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.Equal(t, tc.wantMsg, resp.Error.Message)
		})
	}
}

// Обёртки "op: ..." не влияют на маппинг и не протекают в message.
func TestToHTTP_WrappedError(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("service.auth.LoginUser: %w", service.ErrInvalidCredentials)

	status, resp := ToHTTP(wrapped)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "invalid credentials", resp.Error.Message)
	require.NotContains(t, resp.Error.Message, "service.auth")
}

func TestWriteError_Body(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()

	WriteError(rec, req, service.ErrUserNotFound)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "not_found", resp.Error.Code)
	require.Equal(t, "user not found", resp.Error.Message)
	require.Equal(t, "req-123", resp.Error.RequestID)
}

func TestWriteError_NoRequestID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	rec := httptest.NewRecorder()

	WriteError(rec, req, ErrInvalidBody)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Empty(t, resp.Error.RequestID)
}
