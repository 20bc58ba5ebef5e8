package port

import (
	"context"
	"time"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
)

// SessionRepository deals with opaque session storage. Tokens are always
// referenced by their hash.
type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	// GetUserByTokenHash resolves an unexpired session to its owning user.
	GetUserByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
	// DeleteByTokenHash removes a session. Deleting an unknown hash is not an error.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteAllForUser(ctx context.Context, userID int64) (int, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
