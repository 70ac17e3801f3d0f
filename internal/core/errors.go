package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotConfigured marks a provider requested without a credential.
// Surfaced to the caller as a descriptive failure, never retried.
var ErrNotConfigured = errors.New("provider is not configured")

// NotConfiguredError carries the provider id for rendering a remedy.
type NotConfiguredError struct {
	Provider string
}

func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("provider %q is not configured: missing API key", e.Provider)
}

func (e *NotConfiguredError) Unwrap() error {
	return ErrNotConfigured
}

// QuotaError is the structured, non-fatal result of a rate-limiter denial.
type QuotaError struct {
	Provider  string
	Remaining int
	ResetAt   time.Time
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("call limit reached for provider %q: %d calls remaining, window resets at %s",
		e.Provider, e.Remaining, e.ResetAt.Format(time.RFC3339))
}
