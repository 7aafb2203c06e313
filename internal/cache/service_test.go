package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/consensuslabs/storefront/backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*RedisService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	svc := NewRedisServiceWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { svc.Close() })
	return svc, mr
}

func TestRedisService(t *testing.T) {
	ctx := context.Background()
	svc, mr := newTestService(t)

	require.NoError(t, svc.Ping(ctx))

	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, svc.Set(ctx, "order_info:1", `{"id":1}`, time.Minute))
	val, err := svc.Get(ctx, "order_info:1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, val)

	mr.FastForward(2 * time.Minute)
	_, err = svc.Get(ctx, "order_info:1")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, svc.Set(ctx, "order_info:2", "x", 0))
	require.NoError(t, svc.Delete(ctx, "order_info:2"))
	assert.False(t, mr.Exists("order_info:2"))
}

func TestNewRedisService(t *testing.T) {
	mr := miniredis.RunT(t)

	svc, err := NewRedisService(context.Background(), &config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	_, err = NewRedisService(context.Background(), &config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
