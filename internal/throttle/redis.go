package throttle

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "throttle:"

// incrWindow bumps the window counter and gives it a TTL in the same step, so
// a counter can never outlive its window.
var incrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RedisLimiter is the shared-store counterpart of [MemoryLimiter]: all server
// instances pointing at the same Redis enforce one limit per key.
//
// Keys used per client:
//
//	throttle:count:<key>       request count of the current window (PEXPIRE Window)
//	throttle:block:<key>       present while the client is blocked (TTL = cool-down)
//	throttle:violations:<key>  repeat-offence counter (TTL 24h)
//
// Redis failures fail open: the request is allowed and a warning is logged.
type RedisLimiter struct {
	client *redis.Client
	rules  Rules
}

// NewRedisLimiter returns a [RedisLimiter] using client.
func NewRedisLimiter(client *redis.Client, rules Rules) *RedisLimiter {
	return &RedisLimiter{client: client, rules: rules}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	countKey := redisKeyPrefix + "count:" + key
	blockKey := redisKeyPrefix + "block:" + key
	violationsKey := redisKeyPrefix + "violations:" + key

	ttl, err := r.client.PTTL(ctx, blockKey).Result()
	if err != nil {
		return r.failOpen(ctx, key, err)
	}
	if ttl > 0 {
		return Decision{RetryAfter: ttl}, nil
	}

	count, err := incrWindow.Run(ctx, r.client, []string{countKey}, r.rules.Window.Milliseconds()).Int64()
	if err != nil {
		return r.failOpen(ctx, key, err)
	}

	if count <= int64(r.rules.Limit) {
		return Decision{Allowed: true, Remaining: r.rules.Limit - int(count)}, nil
	}

	violations, err := r.client.Incr(ctx, violationsKey).Result()
	if err != nil {
		return r.failOpen(ctx, key, err)
	}
	block := r.rules.blockFor(int(violations))

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Expire(ctx, violationsKey, r.rules.violationTTL())
		pipe.Set(ctx, blockKey, strconv.FormatInt(violations, 10), block)
		pipe.Del(ctx, countKey)
		return nil
	})
	if err != nil {
		return r.failOpen(ctx, key, err)
	}

	return Decision{RetryAfter: block}, nil
}

func (r *RedisLimiter) failOpen(ctx context.Context, key string, err error) (Decision, error) {
	if errors.Is(err, context.Canceled) {
		return Decision{}, err
	}

	logger.FromContext(ctx).Warn().Err(err).
		Str("func", "*RedisLimiter.Allow").
		Str("key", key).
		Msg("throttle store unavailable, letting the request through")
	return Decision{Allowed: true, Remaining: -1}, nil
}

// Ping checks the connection to Redis.
func (r *RedisLimiter) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.client.Ping(ctx).Err()
}
