package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"love-manager-backend/internal/errs"

	"github.com/redis/go-redis/v9"
)

const revokedTokenKeyPrefix = "love:revoked:jti:"

// RedisRevocationList stores revoked token ids in Redis until the token
// would have expired anyway.
type RedisRevocationList struct {
	client *redis.Client
}

// NewRedisRevocationList wraps an existing client; its lifecycle is managed by the caller.
func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

// Revoke marks jti as revoked for ttl
func (l *RedisRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	if err := l.client.Set(ctx, revokedTokenKeyPrefix+jti, "1", ttl).Err(); err != nil {
		return errs.Transport("failed to revoke token", err)
	}
	return nil
}

// IsRevoked reports whether jti is on the list
func (l *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	_, err := l.client.Get(ctx, revokedTokenKeyPrefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errs.Transport("failed to check token revocation", err)
	}
	return true, nil
}

// MemoryRevocationList is the single-process revocation list
type MemoryRevocationList struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationList creates an empty list
func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{revoked: make(map[string]time.Time), now: time.Now}
}

func (l *MemoryRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, until := range l.revoked {
		if !now.Before(until) {
			delete(l.revoked, id)
		}
	}
	l.revoked[jti] = now.Add(ttl)
	return nil
}

func (l *MemoryRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	until, ok := l.revoked[jti]
	if !ok {
		return false, nil
	}
	return l.now().Before(until), nil
}
