// httperr стандартизирует ответы об ошибках HTTP-слоя.
// На вход он принимает ошибку доменного слоя (service), а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Классы отказа верификации токена (истёк/не разбирается/битая подпись/отозван)
// намеренно схлопываются в единый ответ 401/unauthenticated: клиент не должен
// уметь отличать их друг от друга.
package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"auth-backend/internal/service"
)

// Нестандартный код, часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// ErrInvalidBody — тело запроса не разбирается или содержит лишние поля.
// Локальная ошибка транспортного слоя, маппится в 400.
var ErrInvalidBody = errors.New("invalid request body")

// APIError — единый формат ошибки для клиента.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку доменного слоя в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil — это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг;
//   - неизвестная ошибка -> 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := classify(err)

	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// classify — базовый маппинг ошибок сервиса -> HTTP/код/сообщение.
func classify(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal server error"

	// 400 — ошибки валидации входа и неверный текущий пароль.
	case errors.Is(err, ErrInvalidBody),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrEmptyPassword),
		errors.Is(err, service.ErrEmptyUpdate):
		return http.StatusBadRequest, "invalid_argument", err0(err)

	case errors.Is(err, service.ErrWrongPassword):
		return http.StatusBadRequest, "wrong_password", "current password is incorrect"

	// 401 — проблемы аутентификации. Сообщения для неверных кредов и
	// неактивной учётки различаются (как в политике сервиса), классы отказа
	// токена — нет.
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "unauthenticated", "invalid credentials"

	case errors.Is(err, service.ErrAccountInactive):
		return http.StatusUnauthorized, "unauthenticated", "account is not active"

	case errors.Is(err, service.ErrTokenRequired),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenMalformed),
		errors.Is(err, service.ErrTokenSignature),
		errors.Is(err, service.ErrTokenRevoked):
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"

	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "permission_denied", "insufficient permissions"

	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "not_found", "user not found"

	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, "already_exists", "email already taken"

	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"

	default:
		return http.StatusInternalServerError, "internal", "internal server error"
	}
}

// err0 достаёт текст сентинела без цепочки оберток "op: ...".
func err0(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}
