package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. It is selected
// automatically when no brokers are configured.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType string, userID int64, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.Int64("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"username":      event.Username,
		"email":         event.Email,
		"registered_at": event.RegisteredAt,
	}
	p.logEvent("user.registered", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishPasswordChanged logs user.password.changed events.
func (p *StubPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	payload := map[string]any{
		"user_id":    event.UserID,
		"changed_at": event.ChangedAt,
	}
	p.logEvent("user.password.changed", event.UserID, event.ChangedAt, payload)
	return nil
}

// PublishRoleChanged logs user.role.changed events.
func (p *StubPublisher) PublishRoleChanged(_ context.Context, event domain.RoleChangedEvent) error {
	payload := map[string]any{
		"user_id":    event.UserID,
		"old_role":   event.OldRole,
		"new_role":   event.NewRole,
		"changed_by": event.ChangedBy,
	}
	p.logEvent("user.role.changed", event.UserID, event.ChangedAt, payload)
	return nil
}

// PublishStatusChanged logs user.status.changed events.
func (p *StubPublisher) PublishStatusChanged(_ context.Context, event domain.StatusChangedEvent) error {
	payload := map[string]any{
		"user_id":    event.UserID,
		"old_status": event.OldStatus,
		"new_status": event.NewStatus,
		"changed_by": event.ChangedBy,
	}
	p.logEvent("user.status.changed", event.UserID, event.ChangedAt, payload)
	return nil
}

// PublishUserDeleted logs user.deleted events.
func (p *StubPublisher) PublishUserDeleted(_ context.Context, event domain.UserDeletedEvent) error {
	payload := map[string]any{
		"user_id":    event.UserID,
		"deleted_by": event.DeletedBy,
	}
	p.logEvent("user.deleted", event.UserID, event.DeletedAt, payload)
	return nil
}

// PublishSessionRevoked logs session.revoked events.
func (p *StubPublisher) PublishSessionRevoked(_ context.Context, event domain.SessionRevokedEvent) error {
	payload := map[string]any{
		"user_id": event.UserID,
		"reason":  event.Reason,
	}
	p.logEvent("session.revoked", event.UserID, event.RevokedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
