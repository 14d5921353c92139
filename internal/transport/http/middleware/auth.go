package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"auth-backend/internal/models"
	"auth-backend/internal/service"
	"auth-backend/internal/transport/http/httperr"
)

// TokenChecker — контракт проверки access-токена, реализуемый сервисным слоем.
type TokenChecker interface {
	CheckAccessToken(ctx context.Context, accessToken string) (service.TokenClaims, error)
}

type ctxKeyClaims struct{}
type ctxKeyToken struct{}

// ClaimsFrom достаёт claims аутентифицированного пользователя из контекста.
func ClaimsFrom(ctx context.Context) (service.TokenClaims, bool) {
	claims, ok := ctx.Value(ctxKeyClaims{}).(service.TokenClaims)
	return claims, ok
}

// TokenFrom достаёт "сырой" bearer-токен из контекста.
func TokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(ctxKeyToken{}).(string)
	return token, ok
}

// Auth аутентифицирует запрос по заголовку Authorization: Bearer <token>.
// Порядок проверок: наличие токена -> чёрный список -> подпись/срок
// (оба последних шага внутри CheckAccessToken). Классы отказа схлопываются
// в 401 на уровне httperr. Успешно извлечённые claims и сырой токен
// кладутся в контекст запроса.
func Auth(checker TokenChecker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r.Header.Get("Authorization"))
			if token == "" {
				httperr.WriteError(w, r, fmt.Errorf("middleware.Auth: %w", service.ErrTokenRequired))
				return
			}

			claims, err := checker.CheckAccessToken(r.Context(), token)
			if err != nil {
				httperr.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyClaims{}, claims)
			ctx = context.WithValue(ctx, ctxKeyToken{}, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole пропускает запрос только если роль аутентифицированного
// пользователя входит в разрешённый набор. Ставится строго после Auth.
func RequireRole(roles ...models.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r.Context())
			if !ok {
				httperr.WriteError(w, r, fmt.Errorf("middleware.RequireRole: %w", service.ErrTokenRequired))
				return
			}

			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			httperr.WriteError(w, r, fmt.Errorf("middleware.RequireRole: %w", service.ErrForbidden))
		})
	}
}

// extractBearer возвращает токен из значения заголовка Authorization
// или пустую строку.
func extractBearer(header string) string {
	const prefix = "Bearer "

	if header == "" || !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(header[len(prefix):])
}
