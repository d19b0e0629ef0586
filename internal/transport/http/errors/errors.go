// errors стандартизирует ответы об ошибках REST-слоя.
// На вход он принимает ошибку ядра (autherr), а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Все отказы проверки токена неразличимы снаружи (401 "unauthorized"),
// неверный e-mail и неверный пароль тоже (401 "invalid_credentials").
// Причина остаётся в логах.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/go-auth-tokens/internal/autherr"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат ошибки для клиентов.
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

// Готовые ответы, которые хендлеры и мидлвары пишут напрямую.
var (
	Unauthorized    = APIError{Code: "unauthorized", Message: "unauthorized"}
	InvalidArgument = APIError{Code: "invalid_argument", Message: "invalid argument"}
	NotFound        = APIError{Code: "not_found", Message: "not found"}
	Internal        = APIError{Code: "internal", Message: "internal error"}
)

// ToHTTP конвертирует ошибку ядра в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil - это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг;
//   - отмена/дедлайн контекста -> 499/504;
//   - err — *autherr.Error -> маппим Kind через fromKind();
//   - прочее -> 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{Error: Internal}
	}

	switch {
	case stderrors.Is(err, context.Canceled):
		return StatusClientClosedRequest, ErrorResponse{Error: APIError{Code: "canceled", Message: "canceled"}}
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorResponse{Error: APIError{Code: "deadline_exceeded", Message: "deadline exceeded"}}
	}

	status, apiErr := fromKind(err)
	return status, ErrorResponse{Error: apiErr}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)
	Write(w, r, status, resp.Error)
}

// Write пишет готовую APIError с заданным статусом.
func Write(w http.ResponseWriter, r *http.Request, status int, e APIError) {
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		e.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: e})
}

// fromKind — маппинг видов autherr в HTTP:
//   - отказ проверки токена -> 401 unauthorized;
//   - неверные учётные данные -> 401 invalid_credentials;
//   - AccountAlreadyExists -> 409;
//   - InvalidArgument -> 400;
//   - ProjectNotFound -> 404;
//   - StoreUnavailable/Repository -> 503;
//   - прочее (Hashing, неизвестное) -> 500.
func fromKind(err error) (int, APIError) {
	switch {
	case autherr.IsTokenFailure(err):
		return http.StatusUnauthorized, Unauthorized
	case autherr.IsCredentialFailure(err):
		return http.StatusUnauthorized, APIError{Code: "invalid_credentials", Message: "invalid email or password"}
	case autherr.Retryable(err):
		return http.StatusServiceUnavailable, APIError{Code: "unavailable", Message: "service unavailable"}
	}

	switch autherr.KindOf(err) {
	case autherr.KindAccountAlreadyExists:
		return http.StatusConflict, APIError{Code: "already_exists", Message: "account already exists"}
	case autherr.KindInvalidArgument:
		return http.StatusBadRequest, InvalidArgument
	case autherr.KindProjectNotFound:
		return http.StatusNotFound, NotFound
	default:
		return http.StatusInternalServerError, Internal
	}
}
