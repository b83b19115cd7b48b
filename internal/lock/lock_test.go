package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLocker_AcquireRelease(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()
	key := WarehouseKey(42)

	acquired, err := locker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	// Second acquire on the same key fails while held.
	acquired, err = locker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.False(t, acquired)

	held, err := locker.IsHeld(ctx, key)
	require.NoError(t, err)
	require.True(t, held)

	released, err := locker.Release(ctx, key)
	require.NoError(t, err)
	require.True(t, released)

	acquired, err = locker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)
}

func TestMemoryLocker_Expiry(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()
	key := ProductKey(7)

	acquired, err := locker.Acquire(ctx, key, 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, acquired)

	time.Sleep(20 * time.Millisecond)

	// Expired locks can be taken over.
	acquired, err = locker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)
}

func TestMemoryLocker_AcquireWithRetry(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()
	key := UserKey(1)

	acquired, err := locker.Acquire(ctx, key, 30*time.Millisecond)
	require.NoError(t, err)
	require.True(t, acquired)

	// Retries outlive the first holder's TTL.
	acquired, err = locker.AcquireWithRetry(ctx, key, time.Minute, 5, 20*time.Millisecond)
	require.NoError(t, err)
	require.True(t, acquired)
}

func TestNoOpLocker(t *testing.T) {
	locker := NewNoOpLocker()
	ctx := context.Background()

	acquired, err := locker.Acquire(ctx, "any", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	held, err := locker.IsHeld(ctx, "any")
	require.NoError(t, err)
	require.False(t, held)
}
