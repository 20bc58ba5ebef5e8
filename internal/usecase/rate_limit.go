package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/baltabekpro/tr-velMap/internal/core/port"
)

// LoginRateLimiter throttles credential guessing with a sliding window of
// failed attempts per client identifier.
type LoginRateLimiter struct {
	store       port.RateLimitStore
	window      time.Duration
	maxAttempts int
	now         func() time.Time
}

// NewLoginRateLimiter constructs a limiter over the given attempt store.
func NewLoginRateLimiter(store port.RateLimitStore, window time.Duration, maxAttempts int) *LoginRateLimiter {
	return &LoginRateLimiter{
		store:       store,
		window:      window,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// WithClock overrides the time source, primarily for tests.
func (l *LoginRateLimiter) WithClock(now func() time.Time) *LoginRateLimiter {
	if now != nil {
		l.now = now
	}
	return l
}

// Check trims the window and returns ErrRateLimited once the attempt budget
// for the identifier is exhausted.
func (l *LoginRateLimiter) Check(ctx context.Context, identifier string) error {
	if l == nil || l.store == nil || identifier == "" {
		return nil
	}

	reference := l.now().UTC()
	if err := l.store.TrimWindow(ctx, identifier, l.window, reference); err != nil {
		return fmt.Errorf("trim rate limit window: %w", err)
	}

	count, err := l.store.CountAttempts(ctx, identifier, l.window, reference)
	if err != nil {
		return fmt.Errorf("count attempts: %w", err)
	}

	if count >= l.maxAttempts {
		return ErrRateLimited
	}

	return nil
}

// Record registers a failed attempt for the identifier.
func (l *LoginRateLimiter) Record(ctx context.Context, identifier string) error {
	if l == nil || l.store == nil || identifier == "" {
		return nil
	}
	return l.store.RecordAttempt(ctx, identifier, l.now().UTC())
}

// RetryAfter reports how long the caller should wait before the oldest attempt
// leaves the window. Zero means no wait is needed.
func (l *LoginRateLimiter) RetryAfter(ctx context.Context, identifier string) (time.Duration, error) {
	if l == nil || l.store == nil || identifier == "" {
		return 0, nil
	}

	reference := l.now().UTC()
	oldest, found, err := l.store.OldestAttempt(ctx, identifier, l.window, reference)
	if err != nil {
		return 0, fmt.Errorf("oldest attempt: %w", err)
	}
	if !found {
		return 0, nil
	}

	wait := oldest.Add(l.window).Sub(reference)
	if wait < 0 {
		wait = 0
	}
	return wait, nil
}
