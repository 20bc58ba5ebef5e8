package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/repository"
)

func TestSessionRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)
	now := time.Now().UTC()
	session := domain.Session{
		UserID:    7,
		TokenHash: "deadbeef",
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}

	mock.ExpectExec(`INSERT INTO user_sessions`).
		WithArgs(session.UserID, session.TokenHash, session.CreatedAt, session.ExpiresAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), session); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionRepository_GetUserByTokenHash(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)
	user := sampleUser()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM user_sessions s JOIN users u ON u.id = s.user_id`).
		WithArgs("deadbeef", now).
		WillReturnRows(userRow(mock, user))

	got, err := repo.GetUserByTokenHash(context.Background(), "deadbeef", now)
	if err != nil {
		t.Fatalf("GetUserByTokenHash returned error: %v", err)
	}
	if got.ID != user.ID || got.Username != user.Username {
		t.Fatalf("unexpected user: %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionRepository_GetUserByTokenHashExpired(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM user_sessions s JOIN users u ON u.id = s.user_id`).
		WithArgs("stale", now).
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.GetUserByTokenHash(context.Background(), "stale", now); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected repository.ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_DeleteByTokenHashIdempotent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)

	mock.ExpectExec(`DELETE FROM user_sessions WHERE token_hash = \$1`).
		WithArgs("unknown").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.DeleteByTokenHash(context.Background(), "unknown"); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
}

func TestSessionRepository_DeleteAllForUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)

	mock.ExpectExec(`DELETE FROM user_sessions WHERE user_id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	count, err := repo.DeleteAllForUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("DeleteAllForUser returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 revoked sessions, got %d", count)
	}
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)
	now := time.Now().UTC()

	mock.ExpectExec(`DELETE FROM user_sessions WHERE expires_at <= \$1`).
		WithArgs(now).
		WillReturnResult(pgxmock.NewResult("DELETE", 5))

	count, err := repo.DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("DeleteExpired returned error: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 reaped sessions, got %d", count)
	}
}
