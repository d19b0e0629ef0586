package middleware

import (
	"log/slog"
	"net/http"

	"github.com/pribylovaa/go-auth-tokens/internal/pkg/log"
	apierrors "github.com/pribylovaa/go-auth-tokens/internal/transport/http/errors"
)

// Recover перехватывает panic, конвертирует в 500/internal и пишет унифицированный ответ.
// Детали паники не утекают на клиент.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					attrs := append(log.Panic(rec), slog.String("path", r.URL.Path))
					log.From(r.Context()).LogAttrs(r.Context(), slog.LevelError, "panic_recovered", attrs...)
					apierrors.Write(w, r, http.StatusInternalServerError, apierrors.Internal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
