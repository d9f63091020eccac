package lock

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/wine-inventory/internal/core/domain"
)

const (
	DefaultLockKey = "lock:wine-inventory"
	DefaultLockTTL = 10 * time.Second

	retryInterval  = 25 * time.Millisecond
	releaseTimeout = 2 * time.Second
)

// RedisLocker shares the inventory lock between processes. The TTL bounds how
// long a crashed holder can keep the store locked.
type RedisLocker struct {
	client *redislock.Client
	key    string
	ttl    time.Duration
	logger logrus.FieldLogger
}

func NewRedisLocker(client redislock.RedisClient, key string, ttl time.Duration, logger logrus.FieldLogger) *RedisLocker {
	if key == "" {
		key = DefaultLockKey
	}
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &RedisLocker{
		client: redislock.New(client),
		key:    key,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *RedisLocker) Acquire(ctx context.Context, timeout time.Duration) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	l, err := r.client.Obtain(waitCtx, r.key, r.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(retryInterval),
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrLockTimeout
		}
		return nil, err
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		err := l.Release(releaseCtx)
		switch {
		case errors.Is(err, redislock.ErrLockNotHeld):
			r.logger.WithField("lock_key", r.key).Warn("inventory lock expired before release")
		case err != nil:
			r.logger.WithError(err).WithField("lock_key", r.key).Error("failed to release inventory lock")
		}
	}, nil
}
