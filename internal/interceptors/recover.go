package interceptors

import (
	"context"
	"log/slog"
	"runtime/debug"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pribylovaa/go-auth-tokens/internal/pkg/log"
)

// msgInternal совпадает с сообщением transport/grpc для прочих ошибок:
// паника снаружи неотличима от обычного сбоя.
const msgInternal = "internal server error"

// Recover перехватывает паники в обработчиках TokenValidator и отвечает
// codes.Internal без деталей. В лог уходят метод, тип и значение паники
// (строки токенов замаскированы) и стек. Логгер берётся из контекста,
// иначе base.
func Recover(base *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			attrs := append(log.Panic(rec),
				slog.String("method", info.FullMethod),
				slog.String("stack", string(debug.Stack())),
			)
			log.FromOr(ctx, base).LogAttrs(ctx, slog.LevelError, "panic_recovered", attrs...)

			resp, err = nil, status.Error(codes.Internal, msgInternal)
		}()

		return handler(ctx, req)
	}
}
