package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis connects to TEST_REDIS_ADDR (default localhost:6379).
// Tests are skipped when Redis is not reachable.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisTokenStore_SaveLoadDelete(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisTokenStore(client, time.Minute).WithPrefix("test:token:")
	ctx := context.Background()

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	require.NoError(t, store.Save(ctx, "sid-redis", "tok"))
	t.Cleanup(func() { _ = store.Delete(ctx, "sid-redis") })

	token, err := store.Load(ctx, "sid-redis")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	ttl, err := client.TTL(ctx, "test:token:sid-redis").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	require.NoError(t, store.Delete(ctx, "sid-redis"))
	_, err = store.Load(ctx, "sid-redis")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRedisTokenStore_EmptyID(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisTokenStore(client, 0)
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, "", "tok"))
	assert.NoError(t, store.Delete(ctx, ""))
	_, err := store.Load(ctx, "")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}
