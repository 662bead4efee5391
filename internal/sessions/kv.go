package sessions

import (
	"context"
	stderrors "errors"
	"sync"

	"apex-business/internal/common/database"
)

// ErrKeyNotFound is returned by KV.Get for absent keys.
var ErrKeyNotFound = stderrors.New("key not found")

// KV is the storage capability behind the session store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// RedisKV stores values without expiry in Redis.
type RedisKV struct {
	redis *database.RedisClient
}

func NewRedisKV(redis *database.RedisClient) *RedisKV {
	return &RedisKV{redis: redis}
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.redis.Get(ctx, key)
	if stderrors.Is(err, database.ErrCacheMiss) {
		return nil, ErrKeyNotFound
	}
	return val, err
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	return r.redis.Set(ctx, key, value, 0)
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	return r.redis.Del(ctx, key)
}

// MemoryKV is a process-local KV for development and tests.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
