package domain

import "time"

// UserRole enumerates account privilege levels.
type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// ValidRole reports whether the provided value is a known role.
func ValidRole(value string) bool {
	switch UserRole(value) {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// UserStatus enumerates possible account states.
type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBanned  UserStatus = "banned"
	UserStatusPending UserStatus = "pending"
)

// ValidStatus reports whether the provided value is a known status.
func ValidStatus(value string) bool {
	switch UserStatus(value) {
	case UserStatusActive, UserStatusBanned, UserStatusPending:
		return true
	}
	return false
}

// User mirrors the persisted representation in the users table.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FullName     *string
	AvatarURL    *string
	Bio          *string
	Role         UserRole
	Status       UserStatus
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsBanned reports whether the account has been banned by an administrator.
func (u User) IsBanned() bool {
	return u.Status == UserStatusBanned
}

// IsAdmin reports whether the account carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserStats aggregates per-user activity counters maintained alongside writes.
type UserStats struct {
	UserID         int64
	TotalVisits    int
	TotalReviews   int
	TotalFavorites int
	UpdatedAt      time.Time
}

// PrivacySettings controls profile visibility. A row is created at registration.
type PrivacySettings struct {
	UserID        int64
	ProfilePublic bool
	ShowVisits    bool
	ShowReviews   bool
}

// Identity is the resolved caller identity attached to authenticated requests.
type Identity struct {
	UserID   int64
	Username string
	Email    string
	Role     UserRole
	// Method records which credential produced the identity: "token" for the
	// signed access token, "session" for the opaque session fallback.
	Method string
}
