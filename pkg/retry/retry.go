package retry

import (
	"context"
	"strings"
	"time"
)

type Operation = func() error

type Config struct {
	MaxRetries    int
	BackoffFactor float64
	InitialDelay  time.Duration
	MaxDelay      time.Duration
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxRetries:    3,
		BackoffFactor: 2.0,
		InitialDelay:  200 * time.Millisecond,
		MaxDelay:      20 * time.Second,
	}
}

// permanentMarkers identify upstream failures that retrying cannot fix:
// auth and permission errors come back identical no matter how many times
// the call is repeated, so they short-circuit the loop.
var permanentMarkers = []string{
	"401",
	"403",
	"invalid api key",
	"unauthorized",
	"permission denied",
}

// IsPermanent reports whether err matches a non-retryable failure marker.
// Matching is case-insensitive substring search over the error text.
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range permanentMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

type Retrier struct {
	config *Config
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewRetrier(config *Config) *Retrier {
	return &Retrier{
		config: config,
		sleep:  sleepCtx,
	}
}

func NewDefaultRetrier() *Retrier {
	return NewRetrier(NewDefaultConfig())
}

// Do runs op, retrying transient failures with exponential backoff.
// Delays are deterministic: InitialDelay * BackoffFactor^attempt, no jitter.
// A permanent failure is returned immediately without consuming retries.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	var err error
	delay := r.config.InitialDelay

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		if IsPermanent(err) {
			return err
		}

		if attempt == r.config.MaxRetries {
			return err
		}

		if sleepErr := r.sleep(ctx, delay); sleepErr != nil {
			return sleepErr
		}

		delay = time.Duration(float64(delay) * r.config.BackoffFactor)
		if delay > r.config.MaxDelay {
			delay = r.config.MaxDelay
		}
	}
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
