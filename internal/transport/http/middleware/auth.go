package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pribylovaa/go-auth-tokens/internal/autherr"
	"github.com/pribylovaa/go-auth-tokens/internal/models"
	"github.com/pribylovaa/go-auth-tokens/internal/pkg/log"
	apierrors "github.com/pribylovaa/go-auth-tokens/internal/transport/http/errors"
)

// AccountResolver — проверка strong-токена и загрузка аккаунта.
type AccountResolver interface {
	ResolveAccount(ctx context.Context, bearer string) (*models.Account, error)
}

// ProjectResolver — проверка api-key и загрузка проекта.
type ProjectResolver interface {
	ResolveProject(ctx context.Context, apiKey string) (*models.Project, error)
}

type (
	accountKey struct{}
	projectKey struct{}
)

// RequireAccount пропускает запрос дальше только с валидным strong-токеном
// в Authorization: Bearer и кладёт аккаунт в контекст (см. AccountFrom).
func RequireAccount(res AccountResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				apierrors.Write(w, r, http.StatusUnauthorized, apierrors.Unauthorized)
				return
			}

			acc, err := res.ResolveAccount(r.Context(), token)
			if err != nil {
				reject(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), accountKey{}, acc)
			ctx = log.With(ctx, slog.String("user_id", acc.ID.String()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireProject пропускает запрос дальше только с валидным api-key
// в заголовке header и кладёт проект в контекст (см. ProjectFrom).
func RequireProject(res ProjectResolver, header string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(header))
			if key == "" {
				apierrors.Write(w, r, http.StatusUnauthorized, apierrors.Unauthorized)
				return
			}

			p, err := res.ResolveProject(r.Context(), key)
			if err != nil {
				reject(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), projectKey{}, p)
			ctx = log.With(ctx, slog.String("project_id", p.ID.String()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountFrom возвращает аккаунт, положенный RequireAccount.
func AccountFrom(ctx context.Context) (*models.Account, bool) {
	acc, ok := ctx.Value(accountKey{}).(*models.Account)
	return acc, ok && acc != nil
}

// ProjectFrom возвращает проект, положенный RequireProject.
func ProjectFrom(ctx context.Context) (*models.Project, bool) {
	p, ok := ctx.Value(projectKey{}).(*models.Project)
	return p, ok && p != nil
}

// reject пишет ответ на неудачную аутентификацию.
// Аккаунт, исчезнувший после выдачи токена, для клиента — тот же 401 unauthorized.
func reject(w http.ResponseWriter, r *http.Request, err error) {
	log.From(r.Context()).Debug("auth_rejected", slog.String("reason", autherr.KindOf(err).String()))

	if autherr.KindOf(err) == autherr.KindAccountNotFound {
		apierrors.Write(w, r, http.StatusUnauthorized, apierrors.Unauthorized)
		return
	}
	apierrors.WriteError(w, r, err)
}

// bearerToken извлекает токен из "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, prefix) {
		return "", false
	}

	token := strings.TrimSpace(auth[len(prefix):])
	return token, token != ""
}
