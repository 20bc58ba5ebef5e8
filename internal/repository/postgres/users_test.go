package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/repository"
)

func userRow(mock pgxmock.PgxPoolIface, user domain.User) *pgxmock.Rows {
	return mock.NewRows([]string{
		"id", "username", "email", "password_hash", "full_name", "avatar_url",
		"bio", "role", "status", "last_login_at", "created_at", "updated_at",
	}).AddRow(
		user.ID, user.Username, user.Email, user.PasswordHash, user.FullName,
		user.AvatarURL, user.Bio, user.Role, user.Status, user.LastLoginAt,
		user.CreatedAt, user.UpdatedAt,
	)
}

func sampleUser() domain.User {
	now := time.Now().UTC()
	return domain.User{
		ID:           7,
		Username:     "dana",
		Email:        "dana@example.com",
		PasswordHash: "argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		Role:         domain.RoleUser,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)
	user := sampleUser()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs(user.ID).
		WillReturnRows(userRow(mock, user))

	got, err := repo.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Username != "dana" || got.Role != domain.RoleUser {
		t.Fatalf("unexpected user: %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), 404); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected repository.ErrNotFound, got %v", err)
	}
}

func TestUserRepository_GetByIdentifierMatchesEither(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)
	user := sampleUser()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE \(username = \$1 OR email = \$2\) LIMIT 1`).
		WithArgs("dana@example.com", "dana@example.com").
		WillReturnRows(userRow(mock, user))

	got, err := repo.GetByIdentifier(context.Background(), "dana@example.com")
	if err != nil {
		t.Fatalf("GetByIdentifier returned error: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("unexpected user id %d", got.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_CreateInsertsSupportRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)
	user := sampleUser()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(user.Username, user.Email, user.PasswordHash, user.FullName, user.Role, user.Status).
		WillReturnRows(userRow(mock, user))
	mock.ExpectExec(`INSERT INTO user_stats`).
		WithArgs(user.ID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO user_privacy_settings`).
		WithArgs(user.ID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != user.ID {
		t.Fatalf("unexpected created id %d", created.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)
	user := sampleUser()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(user.Username, user.Email, user.PasswordHash, user.FullName, user.Role, user.Status).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})
	mock.ExpectRollback()

	if _, err := repo.Create(context.Background(), user); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected repository.ErrDuplicate, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_UpdateRoleNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectExec(`UPDATE users SET`).
		WithArgs(domain.RoleAdmin, pgxmock.AnyArg(), int64(404)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.UpdateRole(context.Background(), 404, domain.RoleAdmin); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected repository.ErrNotFound, got %v", err)
	}
}
