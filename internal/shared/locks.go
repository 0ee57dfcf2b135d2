package shared

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLockHeld indicates another lifecycle call holds the asset lock.
var ErrLockHeld = errors.New("shared: lock already held")

// AssetLockKey builds redis keys for asset lifecycle critical sections.
// Two concurrent lifecycle calls on the same asset are never safe.
func AssetLockKey(assetID int64) string {
	return fmt.Sprintf("assets:asset:%d:lock", assetID)
}

// Locker provides advisory locks backed by redis SET NX.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLocker constructs a Locker with the given lock TTL.
func NewLocker(client *redis.Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Locker{client: client, ttl: ttl}
}

// Acquire takes the lock or returns ErrLockHeld. The returned release
// function is safe to call once, even after TTL expiry.
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	if l == nil || l.client == nil {
		// No redis configured: locking is delegated to the database row lock.
		return func() {}, nil
	}
	ok, err := l.client.SetNX(ctx, key, "1", l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("shared: acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}
	return func() {
		_ = l.client.Del(context.Background(), key).Err()
	}, nil
}
