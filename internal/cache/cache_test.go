package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/pribylovaa/go-auth-tokens/internal/autherr"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты RedisKV на реальном Redis (testcontainers-go, redis:7-alpine).
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/cache -v -race -count=1

func startRedis(t *testing.T) (*RedisKV, *redis.Client) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "6379/tcp")
	url := fmt.Sprintf("redis://%s:%s/0", host, port.Port())

	kv, err := NewRedisKV(ctx, url, "test:")
	require.NoError(t, err)

	raw := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})

	t.Cleanup(func() {
		_ = raw.Close()
		_ = kv.Close()
		_ = c.Terminate(context.Background())
	})

	return kv, raw
}

func TestIntegration_SetGetExists_WithPrefix(t *testing.T) {
	kv, raw := startRedis(t)
	ctx := context.Background()

	_, found, err := kv.Get(ctx, "token:absent")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, kv.Set(ctx, "token:1", []byte(`{"k":"v"}`), 0))

	v, found, err := kv.Get(ctx, "token:1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, `{"k":"v"}`, string(v))

	ok, err := kv.Exists(ctx, "token:1")
	require.NoError(t, err)
	require.True(t, ok)

	// ключ лежит под префиксом и без TTL.
	ttl, err := raw.TTL(ctx, "test:token:1").Result()
	require.NoError(t, err)
	require.Equal(t, time.Duration(-1), ttl)
}

func TestIntegration_Set_WithTTL(t *testing.T) {
	kv, raw := startRedis(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "token:ttl", []byte("x"), time.Hour))

	ttl, err := raw.TTL(ctx, "test:token:ttl").Result()
	require.NoError(t, err)
	require.Greater(t, ttl, 59*time.Minute)
	require.LessOrEqual(t, ttl, time.Hour)
}

func TestIntegration_Expired_KeyDisappears(t *testing.T) {
	kv, _ := startRedis(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "token:short", []byte("x"), time.Second))

	require.Eventually(t, func() bool {
		ok, err := kv.Exists(ctx, "token:short")
		return err == nil && !ok
	}, 5*time.Second, 100*time.Millisecond)
}

func TestIntegration_ClosedClient_StoreUnavailable(t *testing.T) {
	kv, _ := startRedis(t)
	ctx := context.Background()

	require.NoError(t, kv.rdb.Close())

	_, _, err := kv.Get(ctx, "token:1")
	require.ErrorIs(t, err, autherr.ErrStoreUnavailable)

	err = kv.Set(ctx, "token:1", []byte("x"), 0)
	require.ErrorIs(t, err, autherr.ErrStoreUnavailable)

	_, err = kv.Exists(ctx, "token:1")
	require.ErrorIs(t, err, autherr.ErrStoreUnavailable)
}

func TestNewRedisKV_BadURL(t *testing.T) {
	t.Parallel()

	_, err := NewRedisKV(context.Background(), "not-a-url", "")
	require.Error(t, err)
}

func TestNewWithClient_DefaultPrefix(t *testing.T) {
	t.Parallel()

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()

	kv := NewWithClient(rdb, "")
	require.Equal(t, "auth:token:1", kv.key("token:1"))
}

func TestUnreachableRedis_StoreUnavailable(t *testing.T) {
	t.Parallel()

	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	kv := NewWithClient(rdb, "")
	defer kv.Close()

	_, _, err := kv.Get(context.Background(), "token:1")
	require.Error(t, err)
	require.ErrorIs(t, err, autherr.ErrStoreUnavailable)
	require.True(t, autherr.Retryable(err))
}
