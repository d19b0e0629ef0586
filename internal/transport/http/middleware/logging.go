package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/go-auth-tokens/internal/pkg/log"
	"github.com/pribylovaa/go-auth-tokens/internal/pkg/redact"
)

// Logging кладёт request-scoped логгер (с request_id) в контекст
// и пишет по записи "http" на каждый запрос. Значения заголовков
// с учётными данными не логируются.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := l
			if rid := r.Header.Get(HeaderRequestID); rid != "" {
				reqLogger = reqLogger.With(slog.String("request_id", rid))
			}
			r = r.WithContext(log.Into(r.Context(), reqLogger))

			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)
			dur := time.Since(start)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("dur", dur),
				slog.Int("bytes", sw.count),
			}
			if v := r.Header.Get("Authorization"); v != "" {
				attrs = append(attrs, slog.String("authorization", redact.Header("Authorization", v)))
			}

			log.From(r.Context()).LogAttrs(r.Context(), levelFor(sw.status), "http", attrs...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
