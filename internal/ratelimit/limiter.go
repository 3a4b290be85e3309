package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter - счетчик попыток в фиксированном окне
type Limiter interface {
	// Allow увеличивает счетчик ключа и сообщает, уложились ли в лимит
	Allow(ctx context.Context, key string) (bool, error)
}

// incrScript атомарно увеличивает счетчик и ставит окно ключу без TTL
var incrScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// RedisLimiter хранит счетчики в Redis: INCR и PEXPIRE одним скриптом
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + ":" + key

	count, err := incrScript.Run(ctx, l.client, []string{k}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	return count <= l.limit, nil
}

// NoopLimiter пропускает все (Redis не настроен)
type NoopLimiter struct{}

func (NoopLimiter) Allow(context.Context, string) (bool, error) {
	return true, nil
}

// NewRedisClient разбирает redis:// URL и проверяет соединение
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
