package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-auth-tokens/internal/autherr"
	"github.com/pribylovaa/go-auth-tokens/internal/models"
	"github.com/pribylovaa/go-auth-tokens/internal/pkg/log"
	"github.com/pribylovaa/go-auth-tokens/internal/pkg/redact"
	"github.com/pribylovaa/go-auth-tokens/internal/storage"
)

const (
	minPasswordRunes = 8
	// bcrypt учитывает только первые 72 байта.
	maxPasswordBytes = 72
)

// Register регистрирует новый аккаунт и возвращает его ID.
func (s *Service) Register(ctx context.Context, email, password string) (uuid.UUID, error) {
	const op = "service.auth.Register"

	lg := log.From(ctx)

	normEmail, err := validateEmail(email)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := validatePassword(password); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	subject := redact.Email(normEmail)

	_, err = s.storage.AccountByEmail(ctx, normEmail)
	if err == nil {
		lg.Info("register_email_taken", slog.String("email", subject))
		return uuid.Nil, fmt.Errorf("%s: %w", op, autherr.New(autherr.KindAccountAlreadyExists, subject, nil))
	}
	if !errors.Is(err, storage.ErrNotFound) {
		lg.Error("register_lookup_failed",
			slog.String("op", op),
			slog.String("email", subject),
			slog.String("err", err.Error()),
		)
		return uuid.Nil, fmt.Errorf("%s: %w", op, autherr.New(autherr.KindRepository, subject, err))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		lg.Error("register_hash_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return uuid.Nil, fmt.Errorf("%s: %w", op, hashErr(err, subject))
	}

	account := &models.Account{
		ID:           uuid.New(),
		Email:        normEmail,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.storage.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, autherr.New(autherr.KindAccountAlreadyExists, subject, nil))
		}

		lg.Error("register_save_failed",
			slog.String("op", op),
			slog.String("email", subject),
			slog.String("err", err.Error()),
		)
		return uuid.Nil, fmt.Errorf("%s: %w", op, autherr.New(autherr.KindRepository, subject, err))
	}

	lg.Info("account_registered",
		slog.String("account_id", account.ID.String()),
		slog.String("email", subject),
	)

	return account.ID, nil
}

// Authenticate проверяет пару email+пароль и выпускает strong-токен.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	const op = "service.auth.Authenticate"

	lg := log.From(ctx)

	normEmail := strings.ToLower(strings.TrimSpace(email))
	subject := redact.Email(normEmail)

	account, err := s.storage.AccountByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.verifyDummy(password)
			lg.Info("login_failed",
				slog.String("email", subject),
				slog.String("reason", autherr.KindAccountNotFound.String()),
			)
			return "", fmt.Errorf("%s: %w", op, autherr.New(autherr.KindAccountNotFound, subject, nil))
		}

		lg.Error("login_lookup_failed",
			slog.String("op", op),
			slog.String("email", subject),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, autherr.New(autherr.KindRepository, subject, err))
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		lg.Error("login_verify_failed",
			slog.String("op", op),
			slog.String("account_id", account.ID.String()),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, hashErr(err, subject))
	}
	if !ok {
		lg.Info("login_failed",
			slog.String("email", subject),
			slog.String("reason", autherr.KindInvalidPassword.String()),
		)
		return "", fmt.Errorf("%s: %w", op, autherr.New(autherr.KindInvalidPassword, subject, nil))
	}

	issued, err := s.tokens.Issue(ctx, models.TokenKindStrong, models.Claims{
		UserID: account.ID.String(),
		Roles:  []string{},
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("login_succeeded",
		slog.String("account_id", account.ID.String()),
		slog.String("token_id", issued.TokenID),
	)

	return issued.Token, nil
}

// ResolveAccount проверяет strong-токен и загружает аккаунт его владельца.
func (s *Service) ResolveAccount(ctx context.Context, bearer string) (*models.Account, error) {
	const op = "service.auth.ResolveAccount"

	claims, err := s.tokens.Validate(ctx, bearer, models.TokenKindStrong)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, autherr.New(autherr.KindCorruptRecord, claims.UserID, err))
	}

	account, err := s.storage.AccountByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, repoErr(err, autherr.KindAccountNotFound, id.String()))
	}

	return account, nil
}

// verifyDummy выравнивает время ответа для отсутствующего аккаунта:
// выполняется та же bcrypt-проверка, результат игнорируется.
func (s *Service) verifyDummy(password string) {
	s.dummyOnce.Do(func() {
		b := make([]byte, 16)
		if _, err := rand.Read(b); err != nil {
			return
		}
		if h, err := s.hasher.Hash(base64.RawStdEncoding.EncodeToString(b)); err == nil {
			s.dummyHash = h
		}
	})

	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}

// validateEmail проверяет базовый формат email и обрезает пробелы снаружи.
func validateEmail(raw string) (string, error) {
	const op = "service.auth.validateEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, autherr.New(autherr.KindInvalidArgument, "email", nil))
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%s: %w", op, autherr.New(autherr.KindInvalidArgument, "email", err))
	}

	return strings.ToLower(email), nil
}

// validatePassword проверяет минимальные требования к паролю.
// Политика: длина >= 8 рун и <= 72 байт, хотя бы одна строчная, заглавная, цифра и спецсимвол.
func validatePassword(pw string) error {
	const op = "service.auth.validatePassword"

	if len([]rune(pw)) < minPasswordRunes || len(pw) > maxPasswordBytes {
		return fmt.Errorf("%s: %w", op, autherr.New(autherr.KindInvalidArgument, "password", nil))
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !(hasLower && hasUpper && hasDigit && hasSpecial) {
		return fmt.Errorf("%s: %w", op, autherr.New(autherr.KindInvalidArgument, "password", nil))
	}

	return nil
}
