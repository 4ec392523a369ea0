package throttle

import (
	"context"
	"sync"
	"time"
)

type clientState struct {
	firstRequest  time.Time
	requestCount  int
	blockUntil    time.Time
	violations    int
	lastViolation time.Time
}

// MemoryLimiter is a fixed-window limiter keeping one entry per key in
// process memory. Limits are not shared between server instances.
type MemoryLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientState
	rules   Rules
	now     func() time.Time
}

// NewMemoryLimiter returns a [MemoryLimiter] enforcing rules.
func NewMemoryLimiter(rules Rules) *MemoryLimiter {
	return &MemoryLimiter{
		clients: make(map[string]*clientState),
		rules:   rules,
		now:     time.Now,
	}
}

// WithClock replaces the time source.
func (m *MemoryLimiter) WithClock(now func() time.Time) *MemoryLimiter {
	if now != nil {
		m.now = now
	}
	return m
}

// Allow counts a request from key. A key over the limit is blocked for
// BlockDuration times its violation count (capped).
func (m *MemoryLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.clients[key]
	if !ok {
		st = &clientState{}
		m.clients[key] = st
	}

	if now.Before(st.blockUntil) {
		return Decision{RetryAfter: st.blockUntil.Sub(now)}, nil
	}

	if st.violations > 0 && now.Sub(st.lastViolation) > m.rules.violationTTL() {
		st.violations = 0
	}

	if st.requestCount == 0 || now.Sub(st.firstRequest) > m.rules.Window {
		st.firstRequest = now
		st.requestCount = 1
	} else {
		st.requestCount++
	}

	if st.requestCount > m.rules.Limit {
		st.violations++
		st.lastViolation = now
		block := m.rules.blockFor(st.violations)
		st.blockUntil = now.Add(block)
		st.requestCount = 0
		return Decision{RetryAfter: block}, nil
	}

	return Decision{Allowed: true, Remaining: m.rules.Limit - st.requestCount}, nil
}

// Sweep evicts entries that are neither blocked, counting nor remembering a
// violation.
func (m *MemoryLimiter) Sweep(ctx context.Context) (int, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for key, st := range m.clients {
		if now.Before(st.blockUntil) {
			continue
		}
		if st.requestCount > 0 && now.Sub(st.firstRequest) <= m.rules.Window {
			continue
		}
		if st.violations > 0 && now.Sub(st.lastViolation) <= m.rules.violationTTL() {
			continue
		}
		delete(m.clients, key)
		evicted++
	}

	return evicted, nil
}

// Len returns the number of tracked keys.
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}
