package domain

import "time"

// UserRegisteredEvent represents the payload for travelmap.user.registered messages.
type UserRegisteredEvent struct {
	EventID      string
	UserID       int64
	Username     string
	Email        string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// PasswordChangedEvent represents the payload for travelmap.user.password.changed messages.
type PasswordChangedEvent struct {
	EventID   string
	UserID    int64
	ChangedAt time.Time
	Metadata  map[string]any
}

// RoleChangedEvent represents the payload for travelmap.user.role.changed messages.
type RoleChangedEvent struct {
	EventID   string
	UserID    int64
	OldRole   string
	NewRole   string
	ChangedBy int64
	ChangedAt time.Time
	Metadata  map[string]any
}

// StatusChangedEvent represents the payload for travelmap.user.status.changed messages.
type StatusChangedEvent struct {
	EventID   string
	UserID    int64
	OldStatus string
	NewStatus string
	ChangedBy int64
	ChangedAt time.Time
	Metadata  map[string]any
}

// UserDeletedEvent represents the payload for travelmap.user.deleted messages.
type UserDeletedEvent struct {
	EventID   string
	UserID    int64
	DeletedBy int64
	DeletedAt time.Time
	Metadata  map[string]any
}

// SessionRevokedEvent represents the payload for travelmap.session.revoked messages.
type SessionRevokedEvent struct {
	EventID   string
	UserID    int64
	RevokedAt time.Time
	Reason    string
	Metadata  map[string]any
}
