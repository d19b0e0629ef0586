// cache реализует key-value контракт хранилища токенов поверх Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pribylovaa/go-auth-tokens/internal/autherr"
	"github.com/pribylovaa/go-auth-tokens/internal/storage"
)

// DefaultPrefix — пространство имён ключей по умолчанию.
const DefaultPrefix = "auth:"

// RedisKV — storage.KV поверх go-redis.
type RedisKV struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisKV создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется DefaultPrefix.
func NewRedisKV(ctx context.Context, redisURL, prefix string) (*RedisKV, error) {
	const op = "cache.NewRedisKV"

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return NewWithClient(rdb, prefix), nil
}

// NewWithClient оборачивает готовый клиент (кластер, sentinel, тесты).
func NewWithClient(rdb redis.UniversalClient, prefix string) *RedisKV {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &RedisKV{rdb: rdb, prefix: prefix}
}

func (c *RedisKV) key(k string) string { return c.prefix + k }

// Get возвращает значение ключа; redis.Nil — отсутствие, а не ошибка.
func (c *RedisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const op = "cache.Get"

	b, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("%s: %w", op, unavailable(err))
	}

	return b, true, nil
}

// Set записывает значение одной командой SET (с EX при ttl > 0).
func (c *RedisKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	const op = "cache.Set"

	if ttl < 0 {
		ttl = 0
	}

	if err := c.rdb.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, unavailable(err))
	}

	return nil
}

// Exists сообщает, существует ли ключ.
func (c *RedisKV) Exists(ctx context.Context, key string) (bool, error) {
	const op = "cache.Exists"

	n, err := c.rdb.Exists(ctx, c.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, unavailable(err))
	}

	return n > 0, nil
}

// Ping проверяет доступность Redis (readiness).
func (c *RedisKV) Ping(ctx context.Context) error {
	const op = "cache.Ping"

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, unavailable(err))
	}

	return nil
}

// Close закрывает клиент Redis.
func (c *RedisKV) Close() error { return c.rdb.Close() }

func unavailable(err error) error {
	return autherr.New(autherr.KindStoreUnavailable, "", err)
}

var _ storage.KV = (*RedisKV)(nil)
