package domain

import "time"

// Session represents an opaque server-side session. Only the SHA-256 hash of
// the issued token is persisted; the plaintext value exists solely on the wire.
type Session struct {
	ID        int64
	UserID    int64
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsActive reports whether the session is still usable at the given instant.
func (s Session) IsActive(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}
