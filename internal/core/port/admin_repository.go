package port

import (
	"context"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
)

// AdminLogRepository appends and reads the audit trail. The table is
// append-only; there are no update or delete operations.
type AdminLogRepository interface {
	Append(ctx context.Context, entry domain.AdminLog) error
	List(ctx context.Context, limit, offset int) ([]domain.AdminLog, int, error)
}

// AdminStatsRepository aggregates dashboard counters.
type AdminStatsRepository interface {
	Collect(ctx context.Context) (*domain.AdminStats, error)
}
