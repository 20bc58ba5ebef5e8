package port

import (
	"context"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus. Publish failures
// must never block the triggering operation; callers log and move on.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error
	PublishRoleChanged(ctx context.Context, event domain.RoleChangedEvent) error
	PublishStatusChanged(ctx context.Context, event domain.StatusChangedEvent) error
	PublishUserDeleted(ctx context.Context, event domain.UserDeletedEvent) error
	PublishSessionRevoked(ctx context.Context, event domain.SessionRevokedEvent) error
}
