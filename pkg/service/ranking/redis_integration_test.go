//go:build integration

package ranking

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/anzhiyu-c/anheyu-press/pkg/domain/model"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
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
	return client
}

func TestRedisRanking(t *testing.T) {
	ctx := context.Background()
	client := setupRedis(t)
	svc := NewWithFallback(ctx, client)
	require.Equal(t, TypeRedis, TypeOf(svc))

	require.NoError(t, svc.Rebuild(ctx, []model.RankingItem{
		{ArticleID: 1, Upvotes: 4},
		{ArticleID: 2, Upvotes: 4},
		{ArticleID: 3, Upvotes: 1},
	}))
	require.NoError(t, svc.Set(ctx, 3, 9))
	require.NoError(t, svc.Remove(ctx, 2))

	top, err := svc.Top(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []model.RankingItem{
		{ArticleID: 3, Upvotes: 9},
		{ArticleID: 1, Upvotes: 4},
	}, top)

	score, err := client.ZScore(ctx, DefaultKey, "1").Result()
	require.NoError(t, err)
	assert.Equal(t, float64(4), score)

	require.NoError(t, svc.Rebuild(ctx, nil))
	top, err = svc.Top(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}
