package lock

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/rl1809/wine-inventory/internal/core/domain"
)

// LocalLocker is a process-wide mutex with a bounded wait.
type LocalLocker struct {
	sem *semaphore.Weighted
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{sem: semaphore.NewWeighted(1)}
}

func (l *LocalLocker) Acquire(ctx context.Context, timeout time.Duration) (func(), error) {
	if timeout <= 0 {
		if !l.sem.TryAcquire(1) {
			return nil, domain.ErrLockTimeout
		}
		return l.releaser(), nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.ErrLockTimeout
	}
	return l.releaser(), nil
}

func (l *LocalLocker) releaser() func() {
	var once sync.Once
	return func() {
		once.Do(func() { l.sem.Release(1) })
	}
}
