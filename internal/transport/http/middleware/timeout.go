package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/go-auth-tokens/internal/pkg/log"
	apierrors "github.com/pribylovaa/go-auth-tokens/internal/transport/http/errors"
)

// deadlineExceeded — тот же ответ, что ToHTTP даёт для context.DeadlineExceeded.
var deadlineExceeded = apierrors.APIError{Code: "deadline_exceeded", Message: "deadline exceeded"}

// Timeout навешивает deadline на запрос, если его ещё нет.
// Значение <=0 делает мидлвар no-op.
//
// Если дедлайн истёк, а хендлер так ничего и не записал (например, вернулся
// по ctx.Done() без ответа), клиент получает 504 в общем формате ошибок.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Deadline(); ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r.WithContext(ctx))

			if sw.written() || !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return
			}

			log.From(ctx).LogAttrs(ctx, slog.LevelWarn, "request_deadline_exceeded",
				slog.String("path", r.URL.Path),
				slog.Duration("timeout", d),
			)
			apierrors.Write(sw, r, http.StatusGatewayTimeout, deadlineExceeded)
		})
	}
}
