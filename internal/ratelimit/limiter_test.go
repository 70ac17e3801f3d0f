package ratelimit

import (
	"testing"
	"time"
)

func newTestLimiter(providers ...string) (*Limiter, *time.Time) {
	l := NewLimiter(providers)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	// Re-anchor trackers onto the fake clock.
	for _, t := range l.trackers {
		t.windowStart = now
	}
	return l, &now
}

func TestLimiter_BudgetInvariant(t *testing.T) {
	l, _ := newTestLimiter("openai")

	// remaining + calls == limit holds at every point in the window.
	for calls := 0; calls < CallLimit; calls++ {
		if got := l.Remaining("openai"); got != CallLimit-calls {
			t.Errorf("after %d calls: Remaining = %d, want %d", calls, got, CallLimit-calls)
		}
		if !l.CanCall("openai") {
			t.Fatalf("CanCall should be true with %d calls used", calls)
		}
		l.RecordCall("openai")
	}

	if l.CanCall("openai") {
		t.Error("CanCall should be false at the limit")
	}
	if got := l.Remaining("openai"); got != 0 {
		t.Errorf("Remaining at limit = %d, want 0", got)
	}
}

func TestLimiter_WindowReset(t *testing.T) {
	l, now := newTestLimiter("openai")

	for i := 0; i < CallLimit; i++ {
		l.RecordCall("openai")
	}
	if l.CanCall("openai") {
		t.Fatal("budget should be exhausted")
	}

	// Just short of the window boundary: still exhausted.
	*now = now.Add(Window - time.Second)
	if l.CanCall("openai") {
		t.Error("budget should stay exhausted within the window")
	}

	// At the boundary the lazy reset kicks in.
	*now = now.Add(time.Second)
	if !l.CanCall("openai") {
		t.Error("budget should reset after the window elapses")
	}
	if got := l.Remaining("openai"); got != CallLimit {
		t.Errorf("Remaining after reset = %d, want %d", got, CallLimit)
	}
}

func TestLimiter_UnknownProvider(t *testing.T) {
	l, _ := newTestLimiter("openai")

	if l.CanCall("mystery") {
		t.Error("unknown provider must not be callable")
	}
	if got := l.Remaining("mystery"); got != 0 {
		t.Errorf("Remaining for unknown provider = %d, want 0", got)
	}
	// RecordCall on an unknown provider is a no-op, not a panic.
	l.RecordCall("mystery")
}

func TestLimiter_ProvidersIndependent(t *testing.T) {
	l, _ := newTestLimiter("openai", "anthropic")

	for i := 0; i < CallLimit; i++ {
		l.RecordCall("openai")
	}

	if l.CanCall("openai") {
		t.Error("openai should be exhausted")
	}
	if !l.CanCall("anthropic") {
		t.Error("anthropic budget must be unaffected")
	}
	if got := l.Remaining("anthropic"); got != CallLimit {
		t.Errorf("anthropic Remaining = %d, want %d", got, CallLimit)
	}
}

func TestLimiter_ResetAt(t *testing.T) {
	l, now := newTestLimiter("openai")

	want := now.Add(Window)
	if got := l.ResetAt("openai"); !got.Equal(want) {
		t.Errorf("ResetAt = %v, want %v", got, want)
	}
}

func TestLimiter_RecordCallIsUnconditional(t *testing.T) {
	l, _ := newTestLimiter("openai")

	// The limiter is a dumb counter: recording past the limit is the
	// caller's bug, not something the limiter hides.
	for i := 0; i < CallLimit+2; i++ {
		l.RecordCall("openai")
	}
	if got := l.Remaining("openai"); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}
}
