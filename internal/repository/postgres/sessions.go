package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
)

// SessionRepository implements port.SessionRepository for PostgreSQL.
type SessionRepository struct {
	pool    PgxPool
	builder squirrel.StatementBuilderType
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(pool PgxPool) *SessionRepository {
	return &SessionRepository{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a session record.
func (r *SessionRepository) Create(ctx context.Context, session domain.Session) error {
	stmt, args, err := r.builder.Insert("user_sessions").
		Columns("user_id", "token_hash", "created_at", "expires_at").
		Values(session.UserID, session.TokenHash, session.CreatedAt, session.ExpiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert session sql: %w", err)
	}

	if _, err := r.pool.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

// GetUserByTokenHash resolves an unexpired session to its owning user.
func (r *SessionRepository) GetUserByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	stmt, args, err := r.builder.Select(
		"u.id", "u.username", "u.email", "u.password_hash", "u.full_name",
		"u.avatar_url", "u.bio", "u.role", "u.status", "u.last_login_at",
		"u.created_at", "u.updated_at",
	).
		From("user_sessions s").
		Join("users u ON u.id = s.user_id").
		Where(squirrel.Eq{"s.token_hash": tokenHash}).
		Where(squirrel.Gt{"s.expires_at": now}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select session user sql: %w", err)
	}

	return scanUser(r.pool.QueryRow(ctx, stmt, args...))
}

// DeleteByTokenHash removes a session. Deleting an unknown hash succeeds so
// logout stays idempotent.
func (r *SessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	stmt, args, err := r.builder.Delete("user_sessions").
		Where(squirrel.Eq{"token_hash": tokenHash}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete session sql: %w", err)
	}

	if _, err := r.pool.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// DeleteAllForUser removes every session owned by the user.
func (r *SessionRepository) DeleteAllForUser(ctx context.Context, userID int64) (int, error) {
	stmt, args, err := r.builder.Delete("user_sessions").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete user sessions sql: %w", err)
	}

	ct, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}

	return int(ct.RowsAffected()), nil
}

// DeleteExpired clears sessions whose expiry has passed.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	stmt, args, err := r.builder.Delete("user_sessions").
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete expired sessions sql: %w", err)
	}

	ct, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	return int(ct.RowsAffected()), nil
}

var _ port.SessionRepository = (*SessionRepository)(nil)
