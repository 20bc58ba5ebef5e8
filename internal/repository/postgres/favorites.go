package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/baltabekpro/tr-velMap/internal/core/port"
	"github.com/baltabekpro/tr-velMap/internal/repository"
)

// FavoriteRepository implements port.FavoriteRepository using PostgreSQL.
type FavoriteRepository struct {
	pool    PgxPool
	builder squirrel.StatementBuilderType
}

// NewFavoriteRepository wires a PostgreSQL-backed favorite repository.
func NewFavoriteRepository(pool PgxPool) *FavoriteRepository {
	return &FavoriteRepository{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Add saves a favorite and bumps the user's counter. The unique constraint on
// (user_id, place_id) rejects duplicates.
func (r *FavoriteRepository) Add(ctx context.Context, userID, placeID int64) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			"INSERT INTO favorites (user_id, place_id) VALUES ($1, $2)",
			userID, placeID,
		); err != nil {
			if IsUniqueViolation(err, "favorites_user_id_place_id_key") {
				return repository.ErrDuplicate
			}
			return fmt.Errorf("insert favorite: %w", err)
		}

		if _, err := tx.Exec(ctx,
			"UPDATE user_stats SET total_favorites = total_favorites + 1, updated_at = NOW() WHERE user_id = $1",
			userID,
		); err != nil {
			return fmt.Errorf("bump favorite counter: %w", err)
		}

		return nil
	})
}

// Remove deletes a favorite and drops the counter. Removing an absent favorite
// reports ErrNotFound.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, placeID int64) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx,
			"DELETE FROM favorites WHERE user_id = $1 AND place_id = $2",
			userID, placeID,
		)
		if err != nil {
			return fmt.Errorf("delete favorite: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return repository.ErrNotFound
		}

		if _, err := tx.Exec(ctx,
			"UPDATE user_stats SET total_favorites = GREATEST(total_favorites - 1, 0), updated_at = NOW() WHERE user_id = $1",
			userID,
		); err != nil {
			return fmt.Errorf("drop favorite counter: %w", err)
		}

		return nil
	})
}

// ListForUser returns the user's favorites newest first, each joined with its
// place.
func (r *FavoriteRepository) ListForUser(ctx context.Context, userID int64) ([]port.FavoriteWithPlace, error) {
	stmt, args, err := r.builder.Select(
		"f.id", "f.user_id", "f.place_id", "f.created_at",
		placeColumns,
	).
		From("favorites f").
		Join("places p ON p.id = f.place_id").
		Where(squirrel.Eq{"f.user_id": userID}).
		OrderBy("f.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list favorites sql: %w", err)
	}

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}
	defer rows.Close()

	items := make([]port.FavoriteWithPlace, 0)
	for rows.Next() {
		var item port.FavoriteWithPlace
		if err := rows.Scan(
			&item.Favorite.ID, &item.Favorite.UserID, &item.Favorite.PlaceID, &item.Favorite.CreatedAt,
			&item.Place.ID, &item.Place.NameKK, &item.Place.NameRU, &item.Place.NameEN,
			&item.Place.DescriptionKK, &item.Place.DescriptionRU, &item.Place.DescriptionEN,
			&item.Place.Category, &item.Place.Latitude, &item.Place.Longitude,
			&item.Place.Address, &item.Place.ImageURL, &item.Place.Rating,
			&item.Place.VisitCount, &item.Place.Status, &item.Place.CreatedAt, &item.Place.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}

	return items, nil
}

var _ port.FavoriteRepository = (*FavoriteRepository)(nil)
