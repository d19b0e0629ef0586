// handlers — REST-хендлеры сервиса аутентификации: регистрация, вход,
// профиль, проекты и их api-key, проверки живости.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-auth-tokens/internal/models"
	apierrors "github.com/pribylovaa/go-auth-tokens/internal/transport/http/errors"
)

// maxBodyBytes — предел размера тела запроса.
const maxBodyBytes = 1 << 20

// Service — операции ядра, которые нужны хендлерам (реализация: internal/service).
type Service interface {
	Register(ctx context.Context, email, password string) (uuid.UUID, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	CreateProject(ctx context.Context, ownerID uuid.UUID, name string) (*models.Project, error)
	ListProjects(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error)
	GetProject(ctx context.Context, ownerID, projectID uuid.UUID) (*models.Project, error)
	IssueAPIKey(ctx context.Context, ownerID, projectID uuid.UUID) (*models.IssuedToken, error)
	RevokeAPIKey(ctx context.Context, ownerID, projectID uuid.UUID, tokenID string) error
}

// Handlers агрегирует зависимости хендлеров.
type Handlers struct {
	svc    Service
	checks []Check
}

// New создаёт хендлеры. checks — зависимости, которые опрашивает /healthz.
func New(svc Service, checks ...Check) *Handlers {
	return &Handlers{svc: svc, checks: checks}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля,
// хвост после объекта и тела больше maxBodyBytes.
func decodeStrict(w http.ResponseWriter, r *http.Request, value any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(value); err != nil {
		return err
	}
	if dec.More() {
		return io.ErrUnexpectedEOF
	}
	return nil
}

// writeInvalidArgument — локальная ошибка парсинга запроса -> 400.
func writeInvalidArgument(w http.ResponseWriter, r *http.Request) {
	apierrors.Write(w, r, http.StatusBadRequest, apierrors.InvalidArgument)
}
