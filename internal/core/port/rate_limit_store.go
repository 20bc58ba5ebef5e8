package port

import (
	"context"
	"time"
)

// RateLimitStore persists timestamped attempts for sliding-window limits.
// The identifier scopes a window to one client (IP, account, or a composite
// of both); the reference time lets callers pin a whole check to one instant.
type RateLimitStore interface {
	// RecordAttempt appends an attempt at the given instant.
	RecordAttempt(ctx context.Context, identifier string, at time.Time) error
	// CountAttempts reports attempts within the window ending at reference.
	CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error)
	// TrimWindow discards attempts that fell out of the window.
	TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error
	// OldestAttempt returns the earliest attempt still inside the window.
	OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error)
}
