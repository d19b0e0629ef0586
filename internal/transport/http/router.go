// http собирает REST-роутер сервиса аутентификации (chi).
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-auth-tokens/internal/transport/http/handlers"
	"github.com/pribylovaa/go-auth-tokens/internal/transport/http/middleware"
)

// Service — операции ядра для REST-слоя: хендлеры + резолверы аутентификации.
type Service interface {
	handlers.Service
	middleware.AccountResolver
	middleware.ProjectResolver
}

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
	// APIKeyHeader — заголовок с api-key (по умолчанию X-API-Key).
	APIKeyHeader string
	// Metrics — обработчик /metrics; nil — эндпойнт не регистрируется.
	Metrics http.Handler
	// Checks — зависимости для /healthz.
	Checks []handlers.Check
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc Service, opts Options) http.Handler {
	if opts.APIKeyHeader == "" {
		opts.APIKeyHeader = "X-API-Key"
	}

	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),
		middleware.RequestID(), // до логирования: request_id попадает в логгер
		middleware.Logging(opts.Logger),
		middleware.Timeout(opts.Timeout),
	)

	h := handlers.New(svc, opts.Checks...)

	// Служебные эндпойнты — всегда на корне.
	root.Get("/livez", h.Livez)
	root.Get("/healthz", h.Healthz)
	if opts.Metrics != nil {
		root.Handle("/metrics", opts.Metrics)
	}

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h, svc, opts.APIKeyHeader)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, svc, opts.APIKeyHeader)
	return root
}

// registerRoutes — единая точка регистрации REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, svc Service, apiKeyHeader string) {
	// auth
	r.Post("/auth/sign-up", h.SignUp)
	r.Post("/auth/sign-in", h.SignIn)

	// под strong-токеном
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAccount(svc))

		r.Get("/auth/me", h.Me)

		r.Post("/projects", h.CreateProject)
		r.Get("/projects", h.ListProjects)
		r.Get("/projects/{id}", h.GetProject)
		r.Post("/projects/{id}/api-keys", h.IssueAPIKey)
		r.Delete("/projects/{id}/api-keys/{tokenID}", h.RevokeAPIKey)
	})

	// под api-key
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireProject(svc, apiKeyHeader))

		r.Get("/api-key/project", h.KeyProject)
	})
}
