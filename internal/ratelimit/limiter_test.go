package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLimiter(client, "test", limit, window), mr
}

func TestRedisLimiter_AllowsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 3, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "user@example.com")
		require.NoError(t, err)
		assert.True(t, ok, "попытка %d должна пройти", i+1)
	}

	ok, err := l.Allow(ctx, "user@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	// другой ключ считается отдельно
	ok, err = l.Allow(ctx, "other@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_WindowExpires(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "k")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "k")
	assert.False(t, ok)

	assert.Equal(t, time.Minute, mr.TTL("test:k"))
	mr.FastForward(time.Minute + time.Second)

	ok, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_KeyWithoutTTLGetsWindow(t *testing.T) {
	l, mr := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	// счетчик, оставшийся без TTL, не блокирует адрес навсегда
	require.NoError(t, mr.Set("test:k", "5"))
	assert.Zero(t, mr.TTL("test:k"))

	ok, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("test:k"))

	mr.FastForward(time.Minute + time.Second)
	ok, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_ErrorWhenRedisDown(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	_, err := l.Allow(context.Background(), "k")
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	_, err = NewRedisClient(context.Background(), "::not a url::")
	assert.Error(t, err)
}

func TestNoopLimiter(t *testing.T) {
	ok, err := NoopLimiter{}.Allow(context.Background(), "anything")
	assert.NoError(t, err)
	assert.True(t, ok)
}
