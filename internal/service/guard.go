package service

import (
	"context"
	"time"

	"github.com/prn-tf/inventario/internal/lock"
)

// Lock tuning for mutating flows. The TTL bounds how long a crashed
// request can block an entity; retries absorb short contention spikes.
const (
	lockTTL        = 5 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 100 * time.Millisecond
)

// withLock runs fn while holding the entity lock, serializing
// check-then-write flows on the same entity.
func withLock(ctx context.Context, locker lock.Locker, key string, fn func() error) error {
	acquired, err := locker.AcquireWithRetry(ctx, key, lockTTL, lockMaxRetries, lockRetryDelay)
	if err != nil {
		return err
	}
	if !acquired {
		return ErrResourceBusy
	}
	defer func() {
		_, _ = locker.Release(ctx, key)
	}()

	return fn()
}
