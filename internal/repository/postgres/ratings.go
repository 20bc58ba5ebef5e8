package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/baltabekpro/tr-velMap/internal/core/port"
)

// RatingRepository implements port.RatingRepository using PostgreSQL.
type RatingRepository struct {
	pool PgxPool
}

// NewRatingRepository wires a PostgreSQL-backed rating repository.
func NewRatingRepository(pool PgxPool) *RatingRepository {
	return &RatingRepository{pool: pool}
}

// Upsert stores the (user, place) rating, recomputes the place average and
// writes it back, all in one transaction. Returns the new average rounded to
// one decimal.
func (r *RatingRepository) Upsert(ctx context.Context, userID, placeID int64, rating int) (float64, error) {
	var avg float64
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO place_ratings (user_id, place_id, rating)
			 VALUES ($1, $2, $3)
			 ON CONFLICT ON CONSTRAINT place_ratings_user_id_place_id_key
			 DO UPDATE SET rating = EXCLUDED.rating, updated_at = NOW()`,
			userID, placeID, rating,
		); err != nil {
			return fmt.Errorf("upsert rating: %w", err)
		}

		if err := tx.QueryRow(ctx,
			"SELECT ROUND(AVG(rating)::numeric, 1) FROM place_ratings WHERE place_id = $1",
			placeID,
		).Scan(&avg); err != nil {
			return fmt.Errorf("compute average rating: %w", err)
		}

		if _, err := tx.Exec(ctx,
			"UPDATE places SET rating = $1, updated_at = NOW() WHERE id = $2",
			avg, placeID,
		); err != nil {
			return fmt.Errorf("store average rating: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return avg, nil
}

var _ port.RatingRepository = (*RatingRepository)(nil)
