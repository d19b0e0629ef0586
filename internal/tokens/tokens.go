// tokens выпускает, проверяет и отзывает непрозрачные токены.
//
// Основные аспекты:
//   - запись токена хранится в KV под ключом token:{id}; вместо секрета
//     хранится его HMAC, поэтому утечка хранилища не даёт рабочих токенов;
//   - strong-токены живут StrongTTL (по умолчанию 7 суток) и исчезают по TTL хранилища;
//   - api-key токены без TTL, единственный путь их смерти — метка revoked:{id};
//   - Service не хранит состояние запроса и безопасен для конкурентного
//     использования при потокобезопасном storage.KV; ретраев внутри нет.
package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-auth-tokens/internal/autherr"
	"github.com/pribylovaa/go-auth-tokens/internal/codec"
	"github.com/pribylovaa/go-auth-tokens/internal/metrics"
	"github.com/pribylovaa/go-auth-tokens/internal/models"
	"github.com/pribylovaa/go-auth-tokens/internal/pkg/log"
	"github.com/pribylovaa/go-auth-tokens/internal/storage"
)

// DefaultStrongTTL — время жизни strong-токена.
const DefaultStrongTTL = 7 * 24 * time.Hour

const (
	tokenKeyPrefix   = "token:"
	revokedKeyPrefix = "revoked:"
	revokedValue     = "true"
)

// Service — сервис токенов.
type Service struct {
	store     storage.KV
	integrity *codec.Integrity
	strongTTL time.Duration
	now       func() time.Time
	metrics   *metrics.Tokens
}

// Option настраивает Service.
type Option func(*Service)

// WithClock подменяет источник времени (тесты истечения).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStrongTTL задаёт время жизни strong-токенов; d <= 0 игнорируется.
func WithStrongTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.strongTTL = d
		}
	}
}

// WithMetrics подключает счётчики Prometheus.
func WithMetrics(m *metrics.Tokens) Option {
	return func(s *Service) { s.metrics = m }
}

// New создаёт Service. integrity несёт серверный ключ HMAC.
func New(store storage.KV, integrity *codec.Integrity, opts ...Option) *Service {
	s := &Service{
		store:     store,
		integrity: integrity,
		strongTTL: DefaultStrongTTL,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func tokenKey(id string) string   { return tokenKeyPrefix + id }
func revokedKey(id string) string { return revokedKeyPrefix + id }

// Issue выпускает токен вида kind с данными claims.
// Побочный эффект — ровно одна запись в хранилище.
func (s *Service) Issue(ctx context.Context, kind models.TokenKind, claims models.Claims) (*models.IssuedToken, error) {
	const op = "tokens.Issue"

	lg := log.From(ctx)

	claims, err := normalizeClaims(kind, claims)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	secret, err := codec.NewSecret()
	if err != nil {
		lg.Error("token_secret_rand_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	tokenID := id.String()

	now := s.now().UTC()
	rec := models.TokenRecord{
		TokenID:    tokenID,
		SecretHash: codec.EncodeHash(s.integrity.Sum(secret)),
		Kind:       kind,
		Claims:     claims,
	}

	var (
		ttl       time.Duration
		expiresAt *time.Time
	)
	if kind == models.TokenKindStrong {
		exp := now.Add(s.strongTTL)
		ms := exp.UnixMilli()
		rec.ExpiresAt = &ms
		ttl = exp.Sub(now)
		expiresAt = &exp
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.Set(ctx, tokenKey(tokenID), payload, ttl); err != nil {
		lg.Error("token_save_failed",
			slog.String("op", op),
			slog.String("token_id", tokenID),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.Issued(string(kind))

	return &models.IssuedToken{
		TokenID:   tokenID,
		Token:     codec.Encode(tokenID, secret),
		ExpiresAt: expiresAt,
	}, nil
}

// Validate проверяет предъявленный токен и возвращает его claims.
//
// Порядок шагов фиксирован: формат, наличие записи, разбор записи,
// HMAC (constant-time), вид, срок (strong) или отзыв (api-key).
func (s *Service) Validate(ctx context.Context, token string, expected models.TokenKind) (*models.Claims, error) {
	const op = "tokens.Validate"

	claims, err := s.validate(ctx, token, expected)

	result := metrics.ResultOK
	if err != nil {
		result = autherr.KindOf(err).String()
		lg := log.From(ctx)
		if autherr.Retryable(err) {
			lg.Error("token_validate_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		} else {
			lg.Debug("token_rejected",
				slog.String("op", op),
				slog.String("expected_kind", string(expected)),
				slog.String("reason", result),
			)
		}
	}
	s.metrics.Validated(string(expected), result)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return claims, nil
}

func (s *Service) validate(ctx context.Context, token string, expected models.TokenKind) (*models.Claims, error) {
	tokenID, secret, err := codec.Decode(token)
	if err != nil {
		return nil, err
	}

	rec, err := s.load(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	stored, err := codec.DecodeHash(rec.SecretHash)
	if err != nil {
		return nil, autherr.New(autherr.KindCorruptRecord, tokenID, err)
	}

	if !s.integrity.Equal(secret, stored) {
		return nil, autherr.New(autherr.KindInvalidToken, tokenID, nil)
	}

	if rec.Kind != expected {
		return nil, autherr.New(autherr.KindTokenKindMismatch, tokenID, nil)
	}

	switch rec.Kind {
	case models.TokenKindStrong:
		if s.now().UnixMilli() >= *rec.ExpiresAt {
			return nil, autherr.New(autherr.KindExpiredToken, tokenID, nil)
		}
	case models.TokenKindAPIKey:
		revoked, err := s.store.Exists(ctx, revokedKey(tokenID))
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, autherr.New(autherr.KindRevokedToken, tokenID, nil)
		}
	}

	claims := rec.Claims
	return &claims, nil
}

// Revoke помечает api-key отозванным. Идемпотентна: повторный отзыв не ошибка.
// Метка пишется без TTL и никогда не снимается.
func (s *Service) Revoke(ctx context.Context, tokenID string) error {
	const op = "tokens.Revoke"

	if tokenID == "" {
		return fmt.Errorf("%s: %w", op, autherr.New(autherr.KindInvalidArgument, "token_id", nil))
	}

	if err := s.store.Set(ctx, revokedKey(tokenID), []byte(revokedValue), 0); err != nil {
		log.From(ctx).Error("token_revoke_failed",
			slog.String("op", op),
			slog.String("token_id", tokenID),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.Revoked()

	return nil
}

// Inspect возвращает публичную часть записи токена по его id (без секрета и хэша).
func (s *Service) Inspect(ctx context.Context, tokenID string) (*models.TokenInfo, error) {
	const op = "tokens.Inspect"

	if tokenID == "" {
		return nil, fmt.Errorf("%s: %w", op, autherr.New(autherr.KindInvalidArgument, "token_id", nil))
	}

	rec, err := s.load(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	info := &models.TokenInfo{
		TokenID: rec.TokenID,
		Kind:    rec.Kind,
		Claims:  rec.Claims,
	}
	if rec.ExpiresAt != nil {
		exp := time.UnixMilli(*rec.ExpiresAt).UTC()
		info.ExpiresAt = &exp
	}

	return info, nil
}

// load читает и разбирает запись token:{id}.
func (s *Service) load(ctx context.Context, tokenID string) (*models.TokenRecord, error) {
	raw, found, err := s.store.Get(ctx, tokenKey(tokenID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, autherr.New(autherr.KindTokenNotFound, tokenID, nil)
	}

	var rec models.TokenRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, autherr.New(autherr.KindCorruptRecord, tokenID, err)
	}

	if err := checkRecord(&rec); err != nil {
		return nil, autherr.New(autherr.KindCorruptRecord, tokenID, err)
	}

	return &rec, nil
}

// checkRecord отбрасывает записи, которые не мог выпустить Issue.
// Для strong-записей нормализует nil-роли в пустой набор.
func checkRecord(rec *models.TokenRecord) error {
	switch rec.Kind {
	case models.TokenKindStrong:
		if rec.ExpiresAt == nil {
			return fmt.Errorf("strong record without expires_at")
		}
		if rec.Claims.Roles == nil {
			rec.Claims.Roles = []string{}
		}
	case models.TokenKindAPIKey:
	default:
		return fmt.Errorf("unknown kind %q", rec.Kind)
	}

	if rec.SecretHash == "" {
		return fmt.Errorf("empty secret_hash")
	}

	return nil
}

// normalizeClaims проверяет соответствие claims виду токена.
func normalizeClaims(kind models.TokenKind, c models.Claims) (models.Claims, error) {
	switch kind {
	case models.TokenKindStrong:
		if c.UserID == "" || c.ProjectID != "" {
			return c, autherr.New(autherr.KindInvalidArgument, "claims", nil)
		}
		roles := make([]string, len(c.Roles))
		copy(roles, c.Roles)
		c.Roles = roles
	case models.TokenKindAPIKey:
		if c.ProjectID == "" || c.UserID != "" || len(c.Roles) > 0 {
			return c, autherr.New(autherr.KindInvalidArgument, "claims", nil)
		}
		c.Roles = nil
	default:
		return c, autherr.New(autherr.KindInvalidArgument, "kind", nil)
	}

	return c, nil
}
