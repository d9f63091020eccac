package port

import (
	"context"
	"time"
)

type Locker interface {
	// Acquire waits at most timeout for the lock and returns domain.ErrLockTimeout
	// when it is still held by someone else. release must be called exactly once.
	Acquire(ctx context.Context, timeout time.Duration) (release func(), err error)
}
