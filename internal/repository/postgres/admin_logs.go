package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
)

// AdminLogRepository implements port.AdminLogRepository using PostgreSQL. The
// table is append-only.
type AdminLogRepository struct {
	pool    PgxPool
	builder squirrel.StatementBuilderType
}

// NewAdminLogRepository wires a PostgreSQL-backed audit log repository.
func NewAdminLogRepository(pool PgxPool) *AdminLogRepository {
	return &AdminLogRepository{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append writes one audit record.
func (r *AdminLogRepository) Append(ctx context.Context, entry domain.AdminLog) error {
	stmt, args, err := r.builder.Insert("admin_logs").
		Columns("admin_id", "action", "target_type", "target_id", "description").
		Values(entry.AdminID, entry.Action, entry.TargetType, entry.TargetID, entry.Description).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert admin log sql: %w", err)
	}

	if _, err := r.pool.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert admin log: %w", err)
	}

	return nil
}

// List returns audit records newest first, with the acting admin's username
// joined when the account still exists, plus the total record count.
func (r *AdminLogRepository) List(ctx context.Context, limit, offset int) ([]domain.AdminLog, int, error) {
	query := r.builder.Select(
		"l.id", "l.admin_id", "l.action", "l.target_type", "l.target_id",
		"l.description", "l.created_at", "u.username",
	).
		From("admin_logs l").
		LeftJoin("users u ON u.id = l.admin_id").
		OrderBy("l.created_at DESC")

	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	if offset > 0 {
		query = query.Offset(uint64(offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list admin logs sql: %w", err)
	}

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query admin logs: %w", err)
	}
	defer rows.Close()

	logs := make([]domain.AdminLog, 0)
	for rows.Next() {
		var entry domain.AdminLog
		if err := rows.Scan(
			&entry.ID, &entry.AdminID, &entry.Action, &entry.TargetType,
			&entry.TargetID, &entry.Description, &entry.CreatedAt, &entry.AdminUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("scan admin log: %w", err)
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate admin logs: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM admin_logs").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("scan admin logs count: %w", err)
	}

	return logs, int(total), nil
}

var _ port.AdminLogRepository = (*AdminLogRepository)(nil)

// AdminStatsRepository implements port.AdminStatsRepository using PostgreSQL.
type AdminStatsRepository struct {
	pool PgxPool
}

// NewAdminStatsRepository wires the dashboard aggregates repository.
func NewAdminStatsRepository(pool PgxPool) *AdminStatsRepository {
	return &AdminStatsRepository{pool: pool}
}

// Collect gathers the dashboard counters in one round trip.
func (r *AdminStatsRepository) Collect(ctx context.Context) (*domain.AdminStats, error) {
	const query = `SELECT
		(SELECT COUNT(*) FROM users),
		(SELECT COUNT(*) FROM users WHERE status = 'active'),
		(SELECT COUNT(*) FROM users WHERE status = 'banned'),
		(SELECT COUNT(*) FROM places WHERE status = 'active'),
		(SELECT COUNT(*) FROM reviews),
		(SELECT COUNT(*) FROM users WHERE created_at >= NOW() - INTERVAL '7 days')`

	var stats domain.AdminStats
	if err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalUsers,
		&stats.ActiveUsers,
		&stats.BannedUsers,
		&stats.TotalPlaces,
		&stats.TotalReviews,
		&stats.NewUsersWeek,
	); err != nil {
		return nil, fmt.Errorf("scan admin stats: %w", err)
	}

	return &stats, nil
}

var _ port.AdminStatsRepository = (*AdminStatsRepository)(nil)
