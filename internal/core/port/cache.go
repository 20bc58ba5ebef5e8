package port

import (
	"context"
	"time"
)

// Cache exposes the key-value operations used by read-through caches. A miss
// is reported via the implementation's sentinel, not an empty value.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
