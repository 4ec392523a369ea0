package throttle

import (
	"context"
	"time"

	"github.com/MKhiriev/pixshare/internal/config"
)

// ViolationTTL is how long a client must behave before its repeat-offence
// counter is forgotten.
const ViolationTTL = 24 * time.Hour

// Decision is the outcome of a single [RateLimiter.Allow] call.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool
	// RetryAfter is how long the client has to wait when the request was denied.
	RetryAfter time.Duration
	// Remaining is the number of requests left in the current window.
	Remaining int
}

// RateLimiter counts requests per key (the client IP) and decides whether the
// next one may pass.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Sweeper is implemented by limiters that keep state which must be evicted
// periodically.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Rules are the window limiter parameters.
type Rules struct {
	Limit              int
	Window             time.Duration
	BlockDuration      time.Duration
	MaxBlockMultiplier int
	ViolationTTL       time.Duration
}

// RulesFromConfig builds [Rules] from the gate configuration.
func RulesFromConfig(cfg config.Gate) Rules {
	return Rules{
		Limit:              cfg.RequestLimit,
		Window:             cfg.Window,
		BlockDuration:      cfg.BlockDuration,
		MaxBlockMultiplier: cfg.MaxBlockMultiplier,
		ViolationTTL:       ViolationTTL,
	}
}

// blockFor returns the cool-down for the n-th violation: the base duration
// times n, with n capped at MaxBlockMultiplier.
func (r Rules) blockFor(violations int) time.Duration {
	multiplier := violations
	if multiplier < 1 {
		multiplier = 1
	}
	if r.MaxBlockMultiplier > 0 && multiplier > r.MaxBlockMultiplier {
		multiplier = r.MaxBlockMultiplier
	}
	return r.BlockDuration * time.Duration(multiplier)
}

func (r Rules) violationTTL() time.Duration {
	if r.ViolationTTL <= 0 {
		return ViolationTTL
	}
	return r.ViolationTTL
}
