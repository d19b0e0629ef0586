// log хранит request-scoped *slog.Logger в context.Context: транспорт
// обогащает логгер (request_id, метод), а сервисный слой достаёт его через From.
package log

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/go-auth-tokens/internal/pkg/redact"
)

type ctxKey struct{}

// Into кладёт логгер в контекст.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From достаёт логгер из контекста (или возвращает slog.Default()).
func From(ctx context.Context) *slog.Logger {
	return FromOr(ctx, nil)
}

// FromOr достаёт логгер из контекста; если его нет — fallback,
// а при fallback == nil — slog.Default().
func FromOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}
	if fallback != nil {
		return fallback
	}

	return slog.Default()
}

// With кладёт в контекст логгер из ctx, дополненный атрибутами args.
func With(ctx context.Context, args ...any) context.Context {
	return Into(ctx, From(ctx).With(args...))
}

// Panic — атрибуты перехваченной паники: тип и значение. Значение
// проходит через redact.Text, строка токена в лог не попадает.
func Panic(rec any) []slog.Attr {
	return []slog.Attr{
		slog.String("panic_type", fmt.Sprintf("%T", rec)),
		slog.String("panic", redact.Text(fmt.Sprint(rec))),
	}
}
