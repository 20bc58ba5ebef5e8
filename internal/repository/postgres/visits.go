package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
)

// VisitRepository implements port.VisitRepository using PostgreSQL.
type VisitRepository struct {
	pool    PgxPool
	builder squirrel.StatementBuilderType
}

// NewVisitRepository wires a PostgreSQL-backed visit repository.
func NewVisitRepository(pool PgxPool) *VisitRepository {
	return &VisitRepository{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Add records a visit, bumps the user's visit counter and the place's
// aggregate count in one transaction. Repeat visits are allowed.
func (r *VisitRepository) Add(ctx context.Context, userID, placeID int64) (*domain.Visit, error) {
	var visit domain.Visit
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			"INSERT INTO visits (user_id, place_id) VALUES ($1, $2) RETURNING id, user_id, place_id, visited_at",
			userID, placeID,
		).Scan(&visit.ID, &visit.UserID, &visit.PlaceID, &visit.VisitedAt); err != nil {
			return fmt.Errorf("insert visit: %w", err)
		}

		if _, err := tx.Exec(ctx,
			"UPDATE user_stats SET total_visits = total_visits + 1, updated_at = NOW() WHERE user_id = $1",
			userID,
		); err != nil {
			return fmt.Errorf("bump visit counter: %w", err)
		}

		if _, err := tx.Exec(ctx,
			"UPDATE places SET visit_count = visit_count + 1 WHERE id = $1",
			placeID,
		); err != nil {
			return fmt.Errorf("bump place visit count: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &visit, nil
}

// ListForUser returns the user's visits newest first, each joined with its
// place.
func (r *VisitRepository) ListForUser(ctx context.Context, userID int64) ([]port.VisitWithPlace, error) {
	stmt, args, err := r.builder.Select(
		"v.id", "v.user_id", "v.place_id", "v.visited_at",
		placeColumns,
	).
		From("visits v").
		Join("places p ON p.id = v.place_id").
		Where(squirrel.Eq{"v.user_id": userID}).
		OrderBy("v.visited_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list visits sql: %w", err)
	}

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query visits: %w", err)
	}
	defer rows.Close()

	items := make([]port.VisitWithPlace, 0)
	for rows.Next() {
		var item port.VisitWithPlace
		if err := rows.Scan(
			&item.Visit.ID, &item.Visit.UserID, &item.Visit.PlaceID, &item.Visit.VisitedAt,
			&item.Place.ID, &item.Place.NameKK, &item.Place.NameRU, &item.Place.NameEN,
			&item.Place.DescriptionKK, &item.Place.DescriptionRU, &item.Place.DescriptionEN,
			&item.Place.Category, &item.Place.Latitude, &item.Place.Longitude,
			&item.Place.Address, &item.Place.ImageURL, &item.Place.Rating,
			&item.Place.VisitCount, &item.Place.Status, &item.Place.CreatedAt, &item.Place.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visits: %w", err)
	}

	return items, nil
}

var _ port.VisitRepository = (*VisitRepository)(nil)
