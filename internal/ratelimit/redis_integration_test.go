//go:build integration

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisStoreFixedWindow(t *testing.T) {
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewLimiter(NewRedisStore(client), 3, time.Minute)
	for i := 0; i < 3; i++ {
		result, err := limiter.Check(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}
	result, err := limiter.Check(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.LessOrEqual(t, result.RetryAfter, 60)
	assert.Greater(t, result.RetryAfter, 0)

	short := NewLimiter(NewRedisStore(client), 1, 200*time.Millisecond)
	first, err := short.Check(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	time.Sleep(300 * time.Millisecond)
	again, err := short.Check(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, again.Allowed, "window resets after expiry")
}
