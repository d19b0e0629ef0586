// transport/grpc содержит gRPC-эндпоинт TokenValidator для соседних сервисов:
// проверку предъявленного токена ожидаемого вида и выдачу его claims.
// Здесь выполняется только маппинг данных и ошибок ядра (autherr) в gRPC.
//
// Принципы:
//   - Контекст запроса прокидывается в сервис без потерь;
//   - Ошибки ядра явно транслируются в коды gRPC (см. toStatus):
//   - любой отказ проверки токена -> codes.Unauthenticated с единым сообщением
//     "unauthorized" (причина не раскрывается, она есть в логах и метриках);
//   - недоступность хранилища -> codes.Unavailable (вызов можно повторить);
//   - иные ошибки -> codes.Internal c единым безопасным сообщением.
//
// Контракт описан в proto/tokens/v1/validator.proto, стабы — gen/go/tokens/v1.
// Сообщения запроса/ответа — google.protobuf.Struct:
//
//	запрос:  {"token": "<строка токена>", "kind": "strong"|"api-key"}
//	ответ:   {"kind": ..., "user_id": ..., "roles": [...]}         (strong)
//	         {"kind": ..., "project_id": ...}                      (api-key)
package grpc

//go:generate protoc -I ../../../proto --go-grpc_out=../../../gen/go --go-grpc_opt=paths=source_relative tokens/v1/validator.proto

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	tokensv1 "github.com/pribylovaa/go-auth-tokens/gen/go/tokens/v1"
	"github.com/pribylovaa/go-auth-tokens/internal/autherr"
	"github.com/pribylovaa/go-auth-tokens/internal/models"
)

const (
	// ServiceName — полное имя gRPC-сервиса (для health).
	ServiceName = "tokens.v1.TokenValidator"
	// ValidateMethod — полное имя метода Validate.
	ValidateMethod = tokensv1.TokenValidator_Validate_FullMethodName

	msgUnauthorized = "unauthorized"
	msgUnavailable  = "token store unavailable"
	msgInternal     = "internal server error"
)

// Validator — проверка токена (реализация: internal/tokens).
type Validator interface {
	Validate(ctx context.Context, token string, expected models.TokenKind) (*models.Claims, error)
}

// TokenServer реализует tokensv1.TokenValidatorServer поверх сервиса токенов.
type TokenServer struct {
	tokensv1.UnimplementedTokenValidatorServer
	tokens Validator
}

// NewTokenServer создаёт gRPC-сервер проверки токенов.
func NewTokenServer(tokens Validator) *TokenServer {
	return &TokenServer{tokens: tokens}
}

// Register регистрирует TokenServer на gRPC-сервере.
func Register(s grpc.ServiceRegistrar, srv tokensv1.TokenValidatorServer) {
	tokensv1.RegisterTokenValidatorServer(s, srv)
}

// Validate проверяет токен и возвращает его claims.
// Маппинг ошибок:
//   - неизвестный kind -> InvalidArgument;
//   - отказ проверки токена -> Unauthenticated;
//   - StoreUnavailable -> Unavailable;
//   - прочее -> Internal.
func (s *TokenServer) Validate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()

	kind := models.TokenKind(fields["kind"].GetStringValue())
	if !kind.Valid() {
		return nil, status.Error(codes.InvalidArgument, "kind must be \"strong\" or \"api-key\"")
	}

	claims, err := s.tokens.Validate(ctx, fields["token"].GetStringValue(), kind)
	if err != nil {
		return nil, toStatus(err)
	}

	out := map[string]any{"kind": string(kind)}
	switch kind {
	case models.TokenKindStrong:
		roles := make([]any, 0, len(claims.Roles))
		for _, r := range claims.Roles {
			roles = append(roles, r)
		}
		out["user_id"] = claims.UserID
		out["roles"] = roles
	case models.TokenKindAPIKey:
		out["project_id"] = claims.ProjectID
	}

	resp, err := structpb.NewStruct(out)
	if err != nil {
		return nil, status.Error(codes.Internal, msgInternal)
	}

	return resp, nil
}

// toStatus переводит ошибку ядра в gRPC-статус без раскрытия причины.
func toStatus(err error) error {
	switch {
	case autherr.IsTokenFailure(err):
		return status.Error(codes.Unauthenticated, msgUnauthorized)
	case autherr.KindOf(err) == autherr.KindInvalidArgument:
		return status.Error(codes.InvalidArgument, "invalid argument")
	case autherr.Retryable(err):
		return status.Error(codes.Unavailable, msgUnavailable)
	default:
		return status.Error(codes.Internal, msgInternal)
	}
}

// Client — клиент tokens.v1.TokenValidator для соседних сервисов.
type Client struct {
	api tokensv1.TokenValidatorClient
}

// NewClient оборачивает соединение.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{api: tokensv1.NewTokenValidatorClient(cc)}
}

// Validate проверяет токен на стороне auth-сервиса. Ошибки — gRPC-статусы сервера.
func (c *Client) Validate(ctx context.Context, token string, kind models.TokenKind, opts ...grpc.CallOption) (*models.Claims, error) {
	const op = "transport.grpc.Client.Validate"

	req, err := structpb.NewStruct(map[string]any{
		"token": token,
		"kind":  string(kind),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out, err := c.api.Validate(ctx, req, opts...)
	if err != nil {
		return nil, err
	}

	fields := out.GetFields()
	claims := &models.Claims{
		UserID:    fields["user_id"].GetStringValue(),
		ProjectID: fields["project_id"].GetStringValue(),
	}
	if lv := fields["roles"].GetListValue(); lv != nil {
		claims.Roles = make([]string, 0, len(lv.GetValues()))
		for _, v := range lv.GetValues() {
			claims.Roles = append(claims.Roles, v.GetStringValue())
		}
	}

	return claims, nil
}
