package usecase

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoginRateLimiter_CheckAndRecord(t *testing.T) {
	store := newStubRateLimitStore()
	limiter := NewLoginRateLimiter(store, time.Minute, 2)

	ctx := context.Background()

	if err := limiter.Check(ctx, "client"); err != nil {
		t.Fatalf("expected empty window to pass, got %v", err)
	}

	if err := limiter.Record(ctx, "client"); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if err := limiter.Check(ctx, "client"); err != nil {
		t.Fatalf("expected one attempt to pass, got %v", err)
	}

	if err := limiter.Record(ctx, "client"); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if err := limiter.Check(ctx, "client"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited at the budget, got %v", err)
	}

	if err := limiter.Check(ctx, "other-client"); err != nil {
		t.Fatalf("expected other identifier to pass, got %v", err)
	}
}

func TestLoginRateLimiter_WindowExpiry(t *testing.T) {
	store := newStubRateLimitStore()
	limiter := NewLoginRateLimiter(store, time.Minute, 1)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := base
	limiter.WithClock(func() time.Time { return current })

	ctx := context.Background()

	if err := limiter.Record(ctx, "client"); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if err := limiter.Check(ctx, "client"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	current = base.Add(2 * time.Minute)
	if err := limiter.Check(ctx, "client"); err != nil {
		t.Fatalf("expected attempt to age out of the window, got %v", err)
	}
}

func TestLoginRateLimiter_RetryAfter(t *testing.T) {
	store := newStubRateLimitStore()
	limiter := NewLoginRateLimiter(store, time.Minute, 1)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := base
	limiter.WithClock(func() time.Time { return current })

	ctx := context.Background()

	wait, err := limiter.RetryAfter(ctx, "client")
	if err != nil {
		t.Fatalf("RetryAfter returned error: %v", err)
	}
	if wait != 0 {
		t.Fatalf("expected zero wait on empty window, got %v", wait)
	}

	if err := limiter.Record(ctx, "client"); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	current = base.Add(20 * time.Second)
	wait, err = limiter.RetryAfter(ctx, "client")
	if err != nil {
		t.Fatalf("RetryAfter returned error: %v", err)
	}
	if wait != 40*time.Second {
		t.Fatalf("expected 40s wait, got %v", wait)
	}
}

func TestLoginRateLimiter_NilSafe(t *testing.T) {
	var limiter *LoginRateLimiter

	ctx := context.Background()
	if err := limiter.Check(ctx, "client"); err != nil {
		t.Fatalf("nil limiter Check returned error: %v", err)
	}
	if err := limiter.Record(ctx, "client"); err != nil {
		t.Fatalf("nil limiter Record returned error: %v", err)
	}
	if wait, err := limiter.RetryAfter(ctx, "client"); err != nil || wait != 0 {
		t.Fatalf("nil limiter RetryAfter returned (%v, %v)", wait, err)
	}
}
