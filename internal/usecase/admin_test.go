package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
	"github.com/baltabekpro/tr-velMap/internal/repository"
)

const adminID int64 = 1

func targetUser() domain.User {
	return domain.User{
		ID:       9,
		Username: "bekzat",
		Email:    "bekzat@example.com",
		Role:     domain.RoleUser,
		Status:   domain.UserStatusActive,
	}
}

func TestAdminService_ListUsersScrubsHashes(t *testing.T) {
	users := &stubUserRepo{
		listFn: func(_ context.Context, filter port.UserListFilter) ([]domain.User, int, error) {
			if filter.Limit != 50 {
				t.Fatalf("expected default limit 50, got %d", filter.Limit)
			}
			return []domain.User{{ID: 9, PasswordHash: "hashed:x"}}, 1, nil
		},
	}
	service := NewAdminService(users, newStubSessionRepo(), &stubAdminLogRepo{}, &stubAdminStatsRepo{}, newStubEventPublisher())

	listed, total, err := service.ListUsers(context.Background(), port.UserListFilter{})
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if total != 1 || len(listed) != 1 {
		t.Fatalf("unexpected result: %d users, total %d", len(listed), total)
	}
	if listed[0].PasswordHash != "" {
		t.Fatal("expected password hashes to be scrubbed")
	}
}

func TestAdminService_ListUsersRejectsUnknownFilters(t *testing.T) {
	service := NewAdminService(&stubUserRepo{}, newStubSessionRepo(), &stubAdminLogRepo{}, &stubAdminStatsRepo{}, newStubEventPublisher())

	if _, _, err := service.ListUsers(context.Background(), port.UserListFilter{Role: "superuser"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}
	if _, _, err := service.ListUsers(context.Background(), port.UserListFilter{Status: "frozen"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestAdminService_ChangeRole(t *testing.T) {
	target := targetUser()
	var newRole domain.UserRole
	users := &stubUserRepo{
		getByIDFn: func(_ context.Context, id int64) (*domain.User, error) {
			if id != target.ID {
				return nil, repository.ErrNotFound
			}
			clone := target
			return &clone, nil
		},
		updateRoleFn: func(_ context.Context, _ int64, role domain.UserRole) error {
			newRole = role
			return nil
		},
	}
	logs := &stubAdminLogRepo{}
	events := newStubEventPublisher()
	service := NewAdminService(users, newStubSessionRepo(), logs, &stubAdminStatsRepo{}, events)

	if err := service.ChangeRole(context.Background(), adminID, target.ID, "moderator"); err != nil {
		t.Fatalf("ChangeRole returned error: %v", err)
	}
	if newRole != domain.RoleModerator {
		t.Fatalf("expected moderator, got %s", newRole)
	}

	appended := logs.appended()
	if len(appended) != 1 || appended[0].Action != "change_role" {
		t.Fatalf("expected one change_role audit record, got %+v", appended)
	}
	if events.published("role_changed") != 1 {
		t.Fatal("expected role changed event")
	}
}

func TestAdminService_ChangeRoleValidation(t *testing.T) {
	service := NewAdminService(&stubUserRepo{}, newStubSessionRepo(), &stubAdminLogRepo{}, &stubAdminStatsRepo{}, newStubEventPublisher())

	if err := service.ChangeRole(context.Background(), adminID, 9, "root"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdminService_ChangeRoleUnknownUser(t *testing.T) {
	users := &stubUserRepo{
		getByIDFn: func(context.Context, int64) (*domain.User, error) {
			return nil, repository.ErrNotFound
		},
	}
	service := NewAdminService(users, newStubSessionRepo(), &stubAdminLogRepo{}, &stubAdminStatsRepo{}, newStubEventPublisher())

	if err := service.ChangeRole(context.Background(), adminID, 404, "moderator"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAdminService_BanRevokesSessions(t *testing.T) {
	target := targetUser()
	users := &stubUserRepo{
		getByIDFn: func(context.Context, int64) (*domain.User, error) {
			clone := target
			return &clone, nil
		},
		updateStatusFn: func(context.Context, int64, domain.UserStatus) error { return nil },
	}
	sessions := newStubSessionRepo()
	logs := &stubAdminLogRepo{}
	events := newStubEventPublisher()
	service := NewAdminService(users, sessions, logs, &stubAdminStatsRepo{}, events)

	if err := service.ChangeStatus(context.Background(), adminID, target.ID, "banned"); err != nil {
		t.Fatalf("ChangeStatus returned error: %v", err)
	}

	if len(sessions.deletedUsers) != 1 || sessions.deletedUsers[0] != target.ID {
		t.Fatal("expected the ban to revoke every session of the target")
	}
	if events.published("status_changed") != 1 {
		t.Fatal("expected status changed event")
	}
}

func TestAdminService_UnbanKeepsSessions(t *testing.T) {
	target := targetUser()
	target.Status = domain.UserStatusBanned
	users := &stubUserRepo{
		getByIDFn: func(context.Context, int64) (*domain.User, error) {
			clone := target
			return &clone, nil
		},
		updateStatusFn: func(context.Context, int64, domain.UserStatus) error { return nil },
	}
	sessions := newStubSessionRepo()
	service := NewAdminService(users, sessions, &stubAdminLogRepo{}, &stubAdminStatsRepo{}, newStubEventPublisher())

	if err := service.ChangeStatus(context.Background(), adminID, target.ID, "active"); err != nil {
		t.Fatalf("ChangeStatus returned error: %v", err)
	}
	if len(sessions.deletedUsers) != 0 {
		t.Fatal("expected no session revocation on unban")
	}
}

func TestAdminService_DeleteUser(t *testing.T) {
	target := targetUser()
	deleted := int64(0)
	users := &stubUserRepo{
		getByIDFn: func(context.Context, int64) (*domain.User, error) {
			clone := target
			return &clone, nil
		},
		deleteFn: func(_ context.Context, id int64) error {
			deleted = id
			return nil
		},
	}
	logs := &stubAdminLogRepo{}
	service := NewAdminService(users, newStubSessionRepo(), logs, &stubAdminStatsRepo{}, newStubEventPublisher())

	if err := service.DeleteUser(context.Background(), adminID, target.ID); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	if deleted != target.ID {
		t.Fatalf("expected user %d to be deleted, got %d", target.ID, deleted)
	}

	appended := logs.appended()
	if len(appended) != 1 || appended[0].Action != "delete_user" {
		t.Fatalf("expected delete_user audit record, got %+v", appended)
	}
}

func TestAdminService_DeleteUserSelf(t *testing.T) {
	service := NewAdminService(&stubUserRepo{}, newStubSessionRepo(), &stubAdminLogRepo{}, &stubAdminStatsRepo{}, newStubEventPublisher())

	if err := service.DeleteUser(context.Background(), adminID, adminID); !errors.Is(err, ErrSelfDelete) {
		t.Fatalf("expected ErrSelfDelete, got %v", err)
	}
}

func TestAdminService_AuditFailureDoesNotFailOperation(t *testing.T) {
	target := targetUser()
	users := &stubUserRepo{
		getByIDFn: func(context.Context, int64) (*domain.User, error) {
			clone := target
			return &clone, nil
		},
		updateRoleFn: func(context.Context, int64, domain.UserRole) error { return nil },
	}
	logs := &stubAdminLogRepo{err: errors.New("audit store down")}
	service := NewAdminService(users, newStubSessionRepo(), logs, &stubAdminStatsRepo{}, newStubEventPublisher())

	if err := service.ChangeRole(context.Background(), adminID, target.ID, "admin"); err != nil {
		t.Fatalf("expected audit failure to be swallowed, got %v", err)
	}
}

func TestAdminService_Stats(t *testing.T) {
	stats := &stubAdminStatsRepo{stats: &domain.AdminStats{TotalUsers: 12, BannedUsers: 2}}
	service := NewAdminService(&stubUserRepo{}, newStubSessionRepo(), &stubAdminLogRepo{}, stats, newStubEventPublisher())

	collected, err := service.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if collected.TotalUsers != 12 || collected.BannedUsers != 2 {
		t.Fatalf("unexpected stats: %+v", collected)
	}
}

func TestAdminService_ListLogsClampsLimit(t *testing.T) {
	logs := &stubAdminLogRepo{
		listFn: func(_ context.Context, limit, offset int) ([]domain.AdminLog, int, error) {
			if limit != 50 {
				t.Fatalf("expected clamped limit 50, got %d", limit)
			}
			if offset != 0 {
				t.Fatalf("expected clamped offset 0, got %d", offset)
			}
			return nil, 0, nil
		},
	}
	service := NewAdminService(&stubUserRepo{}, newStubSessionRepo(), logs, &stubAdminStatsRepo{}, newStubEventPublisher())

	if _, _, err := service.ListLogs(context.Background(), 10000, -5); err != nil {
		t.Fatalf("ListLogs returned error: %v", err)
	}
}
