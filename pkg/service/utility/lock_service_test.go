package utility

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryJobLocker(t *testing.T) {
	ctx := context.Background()
	locker := NewJobLockerWithFallback(nil)

	release, ok, err := locker.TryLock(ctx, "task:lock:a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = locker.TryLock(ctx, "task:lock:a", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "held lock must not be acquired twice")

	_, ok, err = locker.TryLock(ctx, "task:lock:b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "different keys are independent")

	release()
	_, ok, err = locker.TryLock(ctx, "task:lock:a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryJobLocker_Expired(t *testing.T) {
	ctx := context.Background()
	locker := NewMemoryJobLocker()

	staleRelease, ok, err := locker.TryLock(ctx, "k", time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)
	time.Sleep(5 * time.Millisecond)

	_, ok, err = locker.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok, "expired lock can be taken over")

	// 过期持有者的释放不能影响新持有者
	staleRelease()
	_, ok, err = locker.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}
