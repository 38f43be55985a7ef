package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const defaultLockTTL = 4 * time.Minute

// Lock coordinates exclusive cron cycles across worker instances.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// lockStore defines the redis operations RedisLock depends on.
type lockStore interface {
	AcquireLock(ctx context.Context, name, holder string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name string) error
	Get(ctx context.Context, key string) (string, error)
	LockKey(name string) string
}

// RedisLock implements Lock on SETNX with a TTL. Release only frees the key
// when this instance still holds it, so an expired lock taken over by another
// worker is left alone.
type RedisLock struct {
	client lockStore
	name   string
	ttl    time.Duration
	holder string
}

// NewRedisLock constructs a redis-backed cron lock.
func NewRedisLock(client lockStore, name string, ttl time.Duration) (*RedisLock, error) {
	if client == nil {
		return nil, errors.New("redis client required for lock")
	}
	if name == "" {
		return nil, errors.New("lock name is required")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLock{client: client, name: name, ttl: ttl}, nil
}

// Acquire tries to own the lock for the configured TTL.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	holder := uuid.NewString()
	ok, err := l.client.AcquireLock(ctx, l.name, holder, l.ttl)
	if err != nil {
		return false, fmt.Errorf("acquire lock: %w", err)
	}
	if ok {
		l.holder = holder
	}
	return ok, nil
}

// Release frees the lock only if the holder value still matches.
func (l *RedisLock) Release(ctx context.Context) error {
	if l.holder == "" {
		return nil
	}
	value, err := l.client.Get(ctx, l.client.LockKey(l.name))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			l.holder = ""
			return nil
		}
		return fmt.Errorf("read lock holder: %w", err)
	}
	if value != l.holder {
		l.holder = ""
		return nil
	}
	if err := l.client.ReleaseLock(ctx, l.name); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	l.holder = ""
	return nil
}
