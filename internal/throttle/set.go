package throttle

import (
	"context"
	"fmt"

	"github.com/MKhiriev/pixshare/internal/config"
	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Set holds the limiters built from configuration.
type Set struct {
	// Requests is the per-IP window limiter of every request.
	Requests RateLimiter
	// Credentials is the burst limiter of the sign-in endpoints.
	Credentials RateLimiter
	// Sweepers need a periodic [Sweeper.Sweep] to drop idle keys.
	Sweepers []Sweeper

	redis *redis.Client
}

// NewSet builds the limiters selected by cfg.Gate.Limiter. The Redis
// limiter is checked with a PING before it is returned.
func NewSet(ctx context.Context, cfg config.StructuredConfig, log *logger.Logger) (*Set, error) {
	rules := RulesFromConfig(cfg.Gate)
	burst := NewBurstLimiter(cfg.Gate.CredentialRate, cfg.Gate.CredentialBurst)
	set := &Set{Credentials: burst, Sweepers: []Sweeper{burst}}

	switch cfg.Gate.Limiter {
	case config.LimiterRedis:
		opts, err := redis.ParseURL(cfg.Storage.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("error parsing redis url: %w", err)
		}

		set.redis = redis.NewClient(opts)
		limiter := NewRedisLimiter(set.redis, rules)
		if err = limiter.Ping(ctx); err != nil {
			set.redis.Close()
			return nil, fmt.Errorf("error connecting to redis: %w", err)
		}
		set.Requests = limiter

		log.Info().Str("func", "throttle.NewSet").Msg("request throttle counters are kept in redis")
	default:
		memory := NewMemoryLimiter(rules)
		set.Requests = memory
		set.Sweepers = append(set.Sweepers, memory)

		log.Info().Str("func", "throttle.NewSet").Msg("request throttle counters are kept in memory")
	}

	return set, nil
}

// Close releases the Redis connection, if any.
func (s *Set) Close() error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Close()
}
