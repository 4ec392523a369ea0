package throttle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBurstLimiter(t *testing.T) {
	clock := newFakeClock()
	limiter := NewBurstLimiter(1, 3).WithClock(clock.Now)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := limiter.Allow(ctx, "ip")
		require.NoError(t, err)
		require.True(t, d.Allowed, "burst request %d", i)
	}

	d, err := limiter.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, time.Second, d.RetryAfter)

	d, _ = limiter.Allow(ctx, "other")
	assert.True(t, d.Allowed)

	clock.Advance(time.Second)
	d, _ = limiter.Allow(ctx, "ip")
	assert.True(t, d.Allowed)
}

func TestBurstLimiter_Sweep(t *testing.T) {
	clock := newFakeClock()
	limiter := NewBurstLimiter(1, 1).WithClock(clock.Now)
	ctx := context.Background()

	limiter.Allow(ctx, "a")
	clock.Advance(BurstIdleTTL + time.Second)
	limiter.Allow(ctx, "b")

	n, err := limiter.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
