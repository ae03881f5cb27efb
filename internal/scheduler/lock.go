package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// runLockKey is the redis key leased for the duration of one run.
const runLockKey = "ingest:run:lock"

// RedisLock is the cross-instance run lock. The lease carries a TTL so a
// crashed run can never wedge ingestion permanently.
type RedisLock struct {
	client *redis.Client
	holder string
	ttl    time.Duration
}

// NewRedisLock creates a run lock with the given lease duration. holder
// identifies this instance in the lock value for debugging.
func NewRedisLock(client *redis.Client, holder string, ttl time.Duration) *RedisLock {
	return &RedisLock{client: client, holder: holder, ttl: ttl}
}

// Acquire attempts to take the run lease. Returns false when another run
// already holds it.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	ok, err := l.client.SetNX(ctx, runLockKey, l.holder, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire run lock: %w", err)
	}
	return ok, nil
}

// Release drops the lease. Releasing an expired or foreign lease is harmless;
// the next Acquire settles ownership.
func (l *RedisLock) Release(ctx context.Context) error {
	if err := l.client.Del(ctx, runLockKey).Err(); err != nil {
		return fmt.Errorf("release run lock: %w", err)
	}
	return nil
}
