package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/pribylovaa/go-auth-tokens/internal/models"
	"github.com/pribylovaa/go-auth-tokens/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Файл интеграционных тестов для пакета postgres:
// - поднимает реальный PostgreSQL через testcontainers-go (образ postgres:16-alpine);
// - применяет встроенные миграции через Storage.Migrate (goose);
// - проверяет happy-path, уникальность email (без учёта регистра), отсутствие записей
//   и корректную обработку ошибок контекста.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// startPostgres — поднимает временный экземпляр PostgreSQL, применяет миграции
// и возвращает инициализированное хранилище и функцию очистки.
// Если переменная окружения GO_TEST_INTEGRATION не установлена — тест пропускается.
func startPostgres(t *testing.T) (*Storage, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	st, err := New(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, st.Migrate(ctx))

	cleanup := func() {
		st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

// seedAccount создаёт аккаунт.
func seedAccount(t *testing.T, st *Storage, email string) *models.Account {
	t.Helper()
	a := &models.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, st.SaveAccount(context.Background(), a))
	return a
}

func TestIntegration_Migrate_IsIdempotent(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	require.NoError(t, st.Migrate(context.Background()))
	require.NoError(t, st.Ping(context.Background()))
}

// TestIntegration_SaveAccount_And_GetByEmail_And_ByID_OK — happy-path:
// сохранение аккаунта и поиск по email (в другом регистре) и ID.
func TestIntegration_SaveAccount_And_GetByEmail_And_ByID_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	a := seedAccount(t, st, "user@example.com")

	gotByEmail, err := st.AccountByEmail(context.Background(), "User@Example.COM")
	require.NoError(t, err)
	require.Equal(t, a.ID, gotByEmail.ID)
	require.Equal(t, "user@example.com", gotByEmail.Email)
	require.Equal(t, "hash", gotByEmail.PasswordHash)
	require.WithinDuration(t, a.CreatedAt, gotByEmail.CreatedAt, time.Second)

	gotByID, err := st.AccountByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.Equal(t, a.Email, gotByID.Email)
}

// TestIntegration_SaveAccount_UniqueEmail_CaseInsensitive_Violation — конфликт уникальности по email
// при различии только в регистре, ожидаем storage.ErrAlreadyExists.
func TestIntegration_SaveAccount_UniqueEmail_CaseInsensitive_Violation(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	seedAccount(t, st, "user@example.com")

	err := st.SaveAccount(context.Background(), &models.Account{
		ID:           uuid.New(),
		Email:        "USER@EXAMPLE.COM",
		PasswordHash: "h2",
		CreatedAt:    time.Now().UTC(),
	})
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

// TestIntegration_SaveAccount_UniqueID_Violation — конфликт по первичному ключу.
func TestIntegration_SaveAccount_UniqueID_Violation(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	a := seedAccount(t, st, "a@example.com")

	err := st.SaveAccount(context.Background(), &models.Account{
		ID:           a.ID,
		Email:        "b@example.com",
		PasswordHash: "h2",
		CreatedAt:    time.Now().UTC(),
	})
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestIntegration_AccountLookups_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.AccountByEmail(context.Background(), "absent@example.com")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.AccountByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_AccountQueries_ContextCanceled — отменённый контекст должен «просочиться» в ошибки.
func TestIntegration_AccountQueries_ContextCanceled(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.AccountByEmail(ctx, "user@example.com")
	require.ErrorIs(t, err, context.Canceled)

	_, err = st.AccountByID(ctx, uuid.New())
	require.ErrorIs(t, err, context.Canceled)

	err = st.SaveAccount(ctx, &models.Account{ID: uuid.New(), Email: "c@example.com", PasswordHash: "h"})
	require.ErrorIs(t, err, context.Canceled)
}
