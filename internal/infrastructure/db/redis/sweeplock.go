package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sweepLockKey = "civicstream:escalation:sweep_lock"

// SweepLock guards the escalation sweep so only one portal replica runs it
// per interval. The lock expires on its own; a holder that dies mid-sweep
// releases it implicitly after the TTL.
type SweepLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSweepLock creates a SweepLock with the given expiry. The TTL should be
// at least the sweep interval so a slow sweep is not run twice concurrently.
func NewSweepLock(client *redis.Client, ttl time.Duration) *SweepLock {
	return &SweepLock{client: client, ttl: ttl}
}

// TryAcquire attempts to take the lock without blocking. It reports false
// when another replica currently holds it.
func (l *SweepLock) TryAcquire(ctx context.Context) (bool, error) {
	ok, err := l.client.SetNX(ctx, sweepLockKey, "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("sweep lock: %w", err)
	}
	return ok, nil
}

// Release drops the lock so the next tick does not have to wait out the TTL.
func (l *SweepLock) Release(ctx context.Context) error {
	return l.client.Del(ctx, sweepLockKey).Err()
}
