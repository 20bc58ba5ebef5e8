package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
	"github.com/baltabekpro/tr-velMap/internal/infra/logger"
	"github.com/baltabekpro/tr-velMap/internal/repository"
)

var (
	// ErrUserNotFound indicates the targeted account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrSelfDelete indicates an administrator attempted to delete their own account.
	ErrSelfDelete = errors.New("cannot delete own account")
)

// AdminService implements the back-office user management operations. Every
// mutation appends an audit record; audit failures are logged but never fail
// the operation itself.
type AdminService struct {
	users    port.UserRepository
	sessions port.SessionRepository
	logs     port.AdminLogRepository
	stats    port.AdminStatsRepository
	events   port.EventPublisher
	now      func() time.Time
}

// NewAdminService constructs an AdminService.
func NewAdminService(
	users port.UserRepository,
	sessions port.SessionRepository,
	logs port.AdminLogRepository,
	stats port.AdminStatsRepository,
	events port.EventPublisher,
) *AdminService {
	return &AdminService{
		users:    users,
		sessions: sessions,
		logs:     logs,
		stats:    stats,
		events:   events,
		now:      time.Now,
	}
}

// ListUsers returns users matching the filter plus the unpaginated total.
func (s *AdminService) ListUsers(ctx context.Context, filter port.UserListFilter) ([]domain.User, int, error) {
	if filter.Role != "" && !domain.ValidRole(filter.Role) {
		return nil, 0, NewValidationError("unknown role %q", filter.Role)
	}
	if filter.Status != "" && !domain.ValidStatus(filter.Status) {
		return nil, 0, NewValidationError("unknown status %q", filter.Status)
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	for i := range users {
		users[i].PasswordHash = ""
	}

	return users, total, nil
}

// ChangeRole updates the target account's role.
func (s *AdminService) ChangeRole(ctx context.Context, adminID, targetID int64, role string) error {
	if !domain.ValidRole(role) {
		return NewValidationError("unknown role %q", role)
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if err := s.users.UpdateRole(ctx, targetID, domain.UserRole(role)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update role: %w", err)
	}

	s.appendLog(ctx, adminID, "change_role", "user", &targetID,
		fmt.Sprintf("role %s -> %s for %s", target.Role, role, target.Username))

	if s.events != nil {
		event := domain.RoleChangedEvent{
			UserID:    targetID,
			OldRole:   string(target.Role),
			NewRole:   role,
			ChangedBy: adminID,
			ChangedAt: s.now().UTC(),
		}
		if err := s.events.PublishRoleChanged(ctx, event); err != nil {
			logger.WithContext(ctx).Warn("publish role changed failed", zap.Error(err))
		}
	}

	return nil
}

// ChangeStatus updates the target account's status. Banning revokes every
// session the account holds so the opaque credential dies with the ban.
func (s *AdminService) ChangeStatus(ctx context.Context, adminID, targetID int64, status string) error {
	if !domain.ValidStatus(status) {
		return NewValidationError("unknown status %q", status)
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if err := s.users.UpdateStatus(ctx, targetID, domain.UserStatus(status)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update status: %w", err)
	}

	if domain.UserStatus(status) == domain.UserStatusBanned {
		if revoked, err := s.sessions.DeleteAllForUser(ctx, targetID); err != nil {
			logger.WithContext(ctx).Warn("revoke sessions on ban failed", zap.Error(err))
		} else if revoked > 0 {
			logger.WithContext(ctx).Info("revoked sessions on ban",
				zap.Int64("user_id", targetID), zap.Int("count", revoked))
		}
	}

	s.appendLog(ctx, adminID, "change_status", "user", &targetID,
		fmt.Sprintf("status %s -> %s for %s", target.Status, status, target.Username))

	if s.events != nil {
		event := domain.StatusChangedEvent{
			UserID:    targetID,
			OldStatus: string(target.Status),
			NewStatus: status,
			ChangedBy: adminID,
			ChangedAt: s.now().UTC(),
		}
		if err := s.events.PublishStatusChanged(ctx, event); err != nil {
			logger.WithContext(ctx).Warn("publish status changed failed", zap.Error(err))
		}
	}

	return nil
}

// DeleteUser removes the target account. Administrators cannot delete their
// own account through this path.
func (s *AdminService) DeleteUser(ctx context.Context, adminID, targetID int64) error {
	if adminID == targetID {
		return ErrSelfDelete
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.appendLog(ctx, adminID, "delete_user", "user", &targetID,
		fmt.Sprintf("deleted %s", target.Username))

	if s.events != nil {
		event := domain.UserDeletedEvent{
			UserID:    targetID,
			DeletedBy: adminID,
			DeletedAt: s.now().UTC(),
		}
		if err := s.events.PublishUserDeleted(ctx, event); err != nil {
			logger.WithContext(ctx).Warn("publish user deleted failed", zap.Error(err))
		}
	}

	return nil
}

// Stats returns the dashboard aggregates.
func (s *AdminService) Stats(ctx context.Context) (*domain.AdminStats, error) {
	stats, err := s.stats.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect admin stats: %w", err)
	}
	return stats, nil
}

// ListLogs returns audit records newest first plus the total count.
func (s *AdminService) ListLogs(ctx context.Context, limit, offset int) ([]domain.AdminLog, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	logs, total, err := s.logs.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list admin logs: %w", err)
	}
	return logs, total, nil
}

// appendLog writes an audit record. The write is best effort: failures are
// logged, never propagated.
func (s *AdminService) appendLog(ctx context.Context, adminID int64, action, targetType string, targetID *int64, description string) {
	if s.logs == nil {
		return
	}

	entry := domain.AdminLog{
		AdminID:     &adminID,
		Action:      action,
		TargetType:  targetType,
		TargetID:    targetID,
		Description: &description,
	}
	if err := s.logs.Append(ctx, entry); err != nil {
		logger.WithContext(ctx).Warn("append admin log failed",
			zap.String("action", action), zap.Error(err))
	}
}
