package auth

import (
	"context"
	"sync"
	"time"

	"apex-business/internal/common/database"
)

// Denylist records revoked token ids until they expire.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const denylistKeyPrefix = "auth:revoked:"

// RedisDenylist keeps revoked ids as keys with a TTL.
type RedisDenylist struct {
	redis *database.RedisClient
}

func NewRedisDenylist(redis *database.RedisClient) *RedisDenylist {
	return &RedisDenylist{redis: redis}
}

func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return d.redis.Set(ctx, denylistKeyPrefix+tokenID, []byte("1"), ttl)
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return d.redis.Exists(ctx, denylistKeyPrefix+tokenID)
}

// MemoryDenylist is used when no Redis is configured.
type MemoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{entries: make(map[string]time.Time), now: time.Now}
}

func (d *MemoryDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[tokenID] = d.now().Add(ttl)
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	exp, ok := d.entries[tokenID]
	if !ok {
		return false, nil
	}
	if d.now().After(exp) {
		delete(d.entries, tokenID)
		return false, nil
	}
	return true, nil
}
