//go:build integration

package utility

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisJobLocker(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { client.Close() })

	// 两个 locker 模拟两个实例
	first := NewJobLockerWithFallback(client)
	second := NewJobLockerWithFallback(client)

	release, ok, err := first.TryLock(ctx, "task:lock:merge", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = second.TryLock(ctx, "task:lock:merge", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	release()
	exists, err := client.Exists(ctx, "task:lock:merge").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	_, ok, err = second.TryLock(ctx, "task:lock:merge", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
