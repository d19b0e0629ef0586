// service содержит бизнес-логику auth-сервиса:
// регистрацию/аутентификацию аккаунтов, разрешение предъявленных токенов
// в аккаунт или проект и управление api-ключами проектов.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что хранилище, сервис токенов и хэшер потокобезопасны.
//   - Все ошибки — *autherr.Error; транспорт маппит вид ошибки на
//     HTTP-статус/gRPC-код (см. internal/transport).
//   - AccountNotFound и InvalidPassword различаются внутри и сливаются
//     в одно "invalid credentials" на границе.
package service

import (
	"context"
	"errors"
	"sync"

	"github.com/pribylovaa/go-auth-tokens/internal/autherr"
	"github.com/pribylovaa/go-auth-tokens/internal/hasher"
	"github.com/pribylovaa/go-auth-tokens/internal/models"
	"github.com/pribylovaa/go-auth-tokens/internal/storage"
)

// Tokens — контракт сервиса токенов (реализация: internal/tokens).
type Tokens interface {
	Issue(ctx context.Context, kind models.TokenKind, claims models.Claims) (*models.IssuedToken, error)
	Validate(ctx context.Context, token string, expected models.TokenKind) (*models.Claims, error)
	Revoke(ctx context.Context, tokenID string) error
	Inspect(ctx context.Context, tokenID string) (*models.TokenInfo, error)
}

// Service описывает бизнес-логику auth-сервиса.
type Service struct {
	storage storage.Storage
	tokens  Tokens
	hasher  hasher.Hasher

	// dummyHash — хэш случайного пароля для проверки при отсутствующем аккаунте.
	dummyOnce sync.Once
	dummyHash string
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, tokens Tokens, hasher hasher.Hasher) *Service {
	return &Service{
		storage: storage,
		tokens:  tokens,
		hasher:  hasher,
	}
}

// repoErr приводит ошибку хранилища к autherr: ErrNotFound — к notFound,
// прочее (кроме уже типизированных ошибок) — к RepositoryError.
func repoErr(err error, notFound autherr.Kind, subject string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return autherr.New(notFound, subject, nil)
	}

	var ae *autherr.Error
	if errors.As(err, &ae) {
		return err
	}

	return autherr.New(autherr.KindRepository, subject, err)
}

// hashErr приводит сбой хэшера к HashingError; уже помеченные ошибки не оборачиваются повторно.
func hashErr(err error, subject string) error {
	if autherr.KindOf(err) == autherr.KindHashing {
		return err
	}

	return autherr.New(autherr.KindHashing, subject, err)
}
