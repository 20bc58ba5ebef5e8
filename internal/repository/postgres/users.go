package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
	"github.com/baltabekpro/tr-velMap/internal/repository"
)

const userColumns = "id, username, email, password_hash, full_name, avatar_url, bio, role, status, last_login_at, created_at, updated_at"

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	pool    PgxPool
	builder squirrel.StatementBuilderType
}

// NewUserRepository wires a PostgreSQL-backed user repository.
func NewUserRepository(pool PgxPool) *UserRepository {
	return &UserRepository{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.AvatarURL,
		&user.Bio,
		&user.Role,
		&user.Status,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}

// Create inserts the user row together with its stats and privacy rows in one
// transaction. Unique violations surface as repository.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user domain.User) (*domain.User, error) {
	stmt, args, err := r.builder.Insert("users").
		Columns("username", "email", "password_hash", "full_name", "role", "status").
		Values(user.Username, user.Email, user.PasswordHash, user.FullName, user.Role, user.Status).
		Suffix("RETURNING " + userColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert user sql: %w", err)
	}

	var created *domain.User
	err = inTx(ctx, r.pool, func(tx pgx.Tx) error {
		created, err = scanUser(tx.QueryRow(ctx, stmt, args...))
		if err != nil {
			if IsUniqueViolation(err, "") {
				return repository.ErrDuplicate
			}
			return err
		}

		if _, err := tx.Exec(ctx, "INSERT INTO user_stats (user_id) VALUES ($1)", created.ID); err != nil {
			return fmt.Errorf("insert user stats: %w", err)
		}

		if _, err := tx.Exec(ctx, "INSERT INTO user_privacy_settings (user_id) VALUES ($1)", created.ID); err != nil {
			return fmt.Errorf("insert privacy settings: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	stmt, args, err := r.builder.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	return scanUser(r.pool.QueryRow(ctx, stmt, args...))
}

// GetByIdentifier retrieves a user by username or email.
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	stmt, args, err := r.builder.Select(userColumns).
		From("users").
		Where(squirrel.Or{
			squirrel.Eq{"username": identifier},
			squirrel.Eq{"email": identifier},
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by identifier sql: %w", err)
	}

	return scanUser(r.pool.QueryRow(ctx, stmt, args...))
}

// ExistsByUsernameOrEmail reports whether either identifier is already taken.
// This is a fast-path check only; the unique constraints remain authoritative.
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("users").
		Where(squirrel.Or{
			squirrel.Eq{"username": username},
			squirrel.Eq{"email": email},
		}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists sql: %w", err)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("scan exists count: %w", err)
	}

	return count > 0, nil
}

// List returns users matching the filter plus the unpaginated total.
func (r *UserRepository) List(ctx context.Context, filter port.UserListFilter) ([]domain.User, int, error) {
	base := r.builder.Select(userColumns).From("users").OrderBy("created_at DESC")
	countQuery := r.builder.Select("COUNT(*)").From("users")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		cond := squirrel.Or{
			squirrel.ILike{"username": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"full_name": pattern},
		}
		base = base.Where(cond)
		countQuery = countQuery.Where(cond)
	}
	if filter.Role != "" {
		base = base.Where(squirrel.Eq{"role": filter.Role})
		countQuery = countQuery.Where(squirrel.Eq{"role": filter.Role})
	}
	if filter.Status != "" {
		base = base.Where(squirrel.Eq{"status": filter.Status})
		countQuery = countQuery.Where(squirrel.Eq{"status": filter.Status})
	}

	if filter.Limit > 0 {
		base = base.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		base = base.Offset(uint64(filter.Offset))
	}

	stmt, args, err := base.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list users sql: %w", err)
	}

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.FullName,
			&user.AvatarURL,
			&user.Bio,
			&user.Role,
			&user.Status,
			&user.LastLoginAt,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}

	countStmt, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count users sql: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countStmt, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("scan users count: %w", err)
	}

	return users, int(total), nil
}

// UpdateProfile updates the provided fields, keeping stored values for nil
// entries.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, update port.UserProfileUpdate) (*domain.User, error) {
	query := r.builder.Update("users").
		Set("updated_at", time.Now().UTC())

	if update.Email != nil {
		query = query.Set("email", *update.Email)
	}
	if update.FullName != nil {
		query = query.Set("full_name", *update.FullName)
	}
	if update.AvatarURL != nil {
		query = query.Set("avatar_url", *update.AvatarURL)
	}
	if update.Bio != nil {
		query = query.Set("bio", *update.Bio)
	}

	stmt, args, err := query.
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + userColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update profile sql: %w", err)
	}

	return scanUser(r.pool.QueryRow(ctx, stmt, args...))
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.updateField(ctx, id, "password_hash", passwordHash)
}

// UpdateRole changes the account role.
func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role domain.UserRole) error {
	return r.updateField(ctx, id, "role", role)
}

// UpdateStatus changes the account status.
func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, status domain.UserStatus) error {
	return r.updateField(ctx, id, "status", status)
}

func (r *UserRepository) updateField(ctx context.Context, id int64, column string, value any) error {
	stmt, args, err := r.builder.Update("users").
		Set(column, value).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update %s sql: %w", column, err)
	}

	ct, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", column, err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateLastLogin stamps the last successful login time.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	stmt, args, err := r.builder.Update("users").
		Set("last_login_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update last login sql: %w", err)
	}

	if _, err := r.pool.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}

	return nil
}

// Delete removes the user; dependent rows cascade.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	stmt, args, err := r.builder.Delete("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete user sql: %w", err)
	}

	ct, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// GetStats retrieves the per-user activity counters.
func (r *UserRepository) GetStats(ctx context.Context, userID int64) (*domain.UserStats, error) {
	stmt, args, err := r.builder.Select("user_id", "total_visits", "total_reviews", "total_favorites", "updated_at").
		From("user_stats").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user stats sql: %w", err)
	}

	var stats domain.UserStats
	if err := r.pool.QueryRow(ctx, stmt, args...).Scan(
		&stats.UserID,
		&stats.TotalVisits,
		&stats.TotalReviews,
		&stats.TotalFavorites,
		&stats.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user stats: %w", err)
	}

	return &stats, nil
}

var _ port.UserRepository = (*UserRepository)(nil)
