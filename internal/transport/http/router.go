// Пакет http собирает HTTP-поверхность сервиса: роуты, мидлвары
// и служебные эндпойнты (liveness/readiness/метрики).
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"auth-backend/internal/transport/http/handlers"
	"auth-backend/internal/transport/http/middleware"
)

// Service — полный контракт сервисного слоя для HTTP-поверхности.
type Service interface {
	handlers.AuthService
	middleware.TokenChecker
}

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
	// Ready — readiness-проверка для /healthz; nil означает "всегда готов".
	Ready func() bool
	// Metrics — обработчик /metrics (обычно promhttp.Handler()); nil — роут не регистрируется.
	Metrics http.Handler
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// Служебные эндпойнты.
	root.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	root.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if opts.Ready == nil || opts.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})
	if opts.Metrics != nil {
		root.Handle("/metrics", opts.Metrics)
	}

	h := handlers.New(svc)

	// Публичные роуты.
	root.Post("/auth/register", h.RegisterUser)
	root.Post("/auth/login", h.LoginUser)
	root.Post("/auth/refresh-token", h.RefreshToken)

	// Защищённые роуты: bearer-токен обязателен.
	root.Group(func(r chi.Router) {
		r.Use(middleware.Auth(svc))

		r.Post("/auth/logout", h.Logout)
		r.Get("/auth/profile", h.Profile)
		r.Put("/auth/profile", h.UpdateProfile)
		r.Put("/auth/change-password", h.ChangePassword)
	})

	return root
}
