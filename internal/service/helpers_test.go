package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-auth-tokens/internal/codec"
	"github.com/pribylovaa/go-auth-tokens/internal/hasher"
	"github.com/pribylovaa/go-auth-tokens/internal/storage"
	"github.com/pribylovaa/go-auth-tokens/internal/tokens"
	"github.com/pribylovaa/go-auth-tokens/mocks"
)

// memKV — storage.KV в памяти для сценарных тестов.
type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemKV() *memKV { return &memKV{data: map[string][]byte{}} }

func (m *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func newTokens(t *testing.T) *tokens.Service {
	t.Helper()
	return newTokensOn(t, newMemKV())
}

func newTokensOn(t *testing.T, kv storage.KV) *tokens.Service {
	t.Helper()
	integ, err := codec.NewIntegrity([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return tokens.New(kv, integ)
}

func newSvcHasher() *hasher.Bcrypt { return hasher.NewBcrypt(4) }

// newSvc собирает Service на мок-хранилище, настоящем сервисе токенов
// (в памяти) и bcrypt минимальной стоимости.
func newSvc(t *testing.T) (*Service, *mocks.MockStorage, *tokens.Service) {
	t.Helper()
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)
	tok := newTokens(t)
	return New(st, tok, newSvcHasher()), st, tok
}

func mustHashPW(t *testing.T, pw string) string {
	t.Helper()
	h, err := newSvcHasher().Hash(pw)
	require.NoError(t, err)
	return h
}
