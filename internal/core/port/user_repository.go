package port

import (
	"context"
	"time"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
)

// UserListFilter narrows the admin user listing.
type UserListFilter struct {
	Search string
	Role   string
	Status string
	Limit  int
	Offset int
}

// UserProfileUpdate carries optional profile fields; nil keeps the stored value.
type UserProfileUpdate struct {
	Email     *string
	FullName  *string
	AvatarURL *string
	Bio       *string
}

// UserRepository exposes persistence behavior for users.
type UserRepository interface {
	// Create inserts the user together with its stats and privacy rows.
	Create(ctx context.Context, user domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// GetByIdentifier matches either username or email.
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	List(ctx context.Context, filter UserListFilter) ([]domain.User, int, error)
	UpdateProfile(ctx context.Context, id int64, update UserProfileUpdate) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateRole(ctx context.Context, id int64, role domain.UserRole) error
	UpdateStatus(ctx context.Context, id int64, status domain.UserStatus) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
	GetStats(ctx context.Context, userID int64) (*domain.UserStats, error)
}
