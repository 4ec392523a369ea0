package throttle

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// BurstIdleTTL is how long an unused token bucket is kept.
const BurstIdleTTL = 30 * time.Minute

type burstEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// BurstLimiter is a per-key token bucket.
type BurstLimiter struct {
	mu      sync.Mutex
	entries map[string]*burstEntry
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

// NewBurstLimiter allows perSecond requests per key on average, with bursts
// of up to burst requests.
func NewBurstLimiter(perSecond float64, burst int) *BurstLimiter {
	return &BurstLimiter{
		entries: make(map[string]*burstEntry),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		now:     time.Now,
	}
}

// WithClock replaces the time source.
func (b *BurstLimiter) WithClock(now func() time.Time) *BurstLimiter {
	if now != nil {
		b.now = now
	}
	return b
}

func (b *BurstLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := b.now()

	b.mu.Lock()
	entry, ok := b.entries[key]
	if !ok {
		entry = &burstEntry{limiter: rate.NewLimiter(b.limit, b.burst)}
		b.entries[key] = entry
	}
	entry.lastUse = now
	b.mu.Unlock()

	reservation := entry.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return Decision{RetryAfter: time.Second}, nil
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return Decision{RetryAfter: delay}, nil
	}

	return Decision{Allowed: true, Remaining: int(entry.limiter.TokensAt(now))}, nil
}

// Sweep drops buckets unused for [BurstIdleTTL].
func (b *BurstLimiter) Sweep(ctx context.Context) (int, error) {
	now := b.now()

	b.mu.Lock()
	defer b.mu.Unlock()

	evicted := 0
	for key, entry := range b.entries {
		if now.Sub(entry.lastUse) > BurstIdleTTL {
			delete(b.entries, key)
			evicted++
		}
	}
	return evicted, nil
}
