// storage описывает контракты хранилищ: реляционного (аккаунты, проекты)
// и key-value (записи токенов).
package storage

//go:generate mockgen -source=storage.go -destination=../../mocks/mock_storage.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-auth-tokens/internal/models"
)

var (
	// ErrNotFound — запись не найдена (аккаунт/проект).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email).
	ErrAlreadyExists = errors.New("already exists")
)

// AccountStorage — контракт поиска и создания аккаунтов.
type AccountStorage interface {
	// SaveAccount создаёт аккаунт; занятый email — ErrAlreadyExists.
	SaveAccount(ctx context.Context, account *models.Account) error
	// AccountByEmail находит аккаунт по email; отсутствие — ErrNotFound.
	AccountByEmail(ctx context.Context, email string) (*models.Account, error)
	// AccountByID находит аккаунт по ID; отсутствие — ErrNotFound.
	AccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

// ProjectStorage выполняет операции над проектами.
type ProjectStorage interface {
	// SaveProject создаёт проект.
	SaveProject(ctx context.Context, project *models.Project) error
	// ProjectByID находит проект по ID; отсутствие — ErrNotFound.
	ProjectByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	// ProjectsByOwner возвращает проекты владельца (от новых к старым).
	ProjectsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error)
}

// Storage задаёт контракт реляционного хранилища.
type Storage interface {
	AccountStorage
	ProjectStorage
	Close()
}

// KV — узкий контракт key-value хранилища токенов.
// Все ошибки транспорта возвращаются как autherr.KindStoreUnavailable.
type KV interface {
	// Get возвращает значение и признак его наличия.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set атомарно записывает значение; ttl <= 0 — без срока жизни.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Exists сообщает, существует ли ключ.
	Exists(ctx context.Context, key string) (bool, error)
}
