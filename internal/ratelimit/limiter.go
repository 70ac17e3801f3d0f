// Package ratelimit enforces a fixed-window call budget per provider.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// CallLimit is the per-provider quota within one window.
	CallLimit = 3

	// Window is the fixed rate-limit interval.
	Window = time.Hour
)

type tracker struct {
	calls       int
	windowStart time.Time
}

// Limiter tracks call budgets for the providers known at process start.
// Window resets are lazy: applied at the top of every accessor, never by
// a background timer, so behavior is deterministic under an injected
// clock. The limiter does not self-enforce; callers must check CanCall
// before RecordCall.
type Limiter struct {
	mu       sync.Mutex
	now      func() time.Time
	window   time.Duration
	limit    int
	trackers map[string]*tracker
}

func NewLimiter(providers []string) *Limiter {
	l := &Limiter{
		now:      time.Now,
		window:   Window,
		limit:    CallLimit,
		trackers: make(map[string]*tracker, len(providers)),
	}
	start := l.now()
	for _, p := range providers {
		l.trackers[p] = &tracker{windowStart: start}
	}
	return l
}

// CanCall reports whether provider has budget left. Unknown providers
// never have budget.
func (l *Limiter) CanCall(provider string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.trackers[provider]
	if !ok {
		return false
	}
	l.resetIfExpired(t)
	return t.calls < l.limit
}

// RecordCall increments the provider's counter unconditionally.
func (l *Limiter) RecordCall(provider string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.trackers[provider]
	if !ok {
		return
	}
	l.resetIfExpired(t)
	t.calls++
}

// Remaining returns the calls left in the provider's current window,
// zero for unknown providers.
func (l *Limiter) Remaining(provider string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.trackers[provider]
	if !ok {
		return 0
	}
	l.resetIfExpired(t)
	if t.calls >= l.limit {
		return 0
	}
	return l.limit - t.calls
}

// ResetAt returns when the provider's current window ends.
func (l *Limiter) ResetAt(provider string) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.trackers[provider]
	if !ok {
		return l.now()
	}
	l.resetIfExpired(t)
	return t.windowStart.Add(l.window)
}

// resetIfExpired applies the lazy window reset. Callers hold l.mu.
func (l *Limiter) resetIfExpired(t *tracker) {
	now := l.now()
	if now.Sub(t.windowStart) >= l.window {
		t.calls = 0
		t.windowStart = now
	}
}
