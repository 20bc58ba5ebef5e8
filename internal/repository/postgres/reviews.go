package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
	"github.com/baltabekpro/tr-velMap/internal/repository"
)

// ReviewRepository implements port.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool    PgxPool
	builder squirrel.StatementBuilderType
}

// NewReviewRepository wires a PostgreSQL-backed review repository.
func NewReviewRepository(pool PgxPool) *ReviewRepository {
	return &ReviewRepository{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a review and bumps the author's review counter in one
// transaction.
func (r *ReviewRepository) Create(ctx context.Context, review domain.Review) (*domain.Review, error) {
	stmt, args, err := r.builder.Insert("reviews").
		Columns("user_id", "place_id", "rating", "comment").
		Values(review.UserID, review.PlaceID, review.Rating, review.Comment).
		Suffix("RETURNING id, user_id, place_id, rating, comment, status, likes_count, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert review sql: %w", err)
	}

	var created domain.Review
	err = inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, stmt, args...).Scan(
			&created.ID, &created.UserID, &created.PlaceID, &created.Rating,
			&created.Comment, &created.Status, &created.LikesCount, &created.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert review: %w", err)
		}

		if _, err := tx.Exec(ctx,
			"UPDATE user_stats SET total_reviews = total_reviews + 1, updated_at = NOW() WHERE user_id = $1",
			created.UserID,
		); err != nil {
			return fmt.Errorf("bump review counter: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// GetByID retrieves a single review without author fields.
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	stmt, args, err := r.builder.Select("id", "user_id", "place_id", "rating", "comment", "status", "likes_count", "created_at").
		From("reviews").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select review sql: %w", err)
	}

	var review domain.Review
	if err := r.pool.QueryRow(ctx, stmt, args...).Scan(
		&review.ID, &review.UserID, &review.PlaceID, &review.Rating,
		&review.Comment, &review.Status, &review.LikesCount, &review.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}

	return &review, nil
}

// ListForPlace returns the newest published reviews with author fields joined.
func (r *ReviewRepository) ListForPlace(ctx context.Context, placeID int64, limit int) ([]domain.Review, error) {
	query := r.builder.Select(
		"rv.id", "rv.user_id", "rv.place_id", "rv.rating", "rv.comment",
		"rv.status", "rv.likes_count", "rv.created_at",
		"u.username", "u.avatar_url",
	).
		From("reviews rv").
		Join("users u ON u.id = rv.user_id").
		Where(squirrel.Eq{"rv.place_id": placeID}).
		Where(squirrel.Eq{"rv.status": domain.ReviewStatusPublished}).
		OrderBy("rv.created_at DESC")

	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list reviews sql: %w", err)
	}

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(
			&review.ID, &review.UserID, &review.PlaceID, &review.Rating,
			&review.Comment, &review.Status, &review.LikesCount, &review.CreatedAt,
			&review.AuthorUsername, &review.AuthorAvatarURL,
		); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}

// Delete removes a review with its likes and drops the author's review
// counter in one transaction.
func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			"DELETE FROM review_likes WHERE review_id = $1", id,
		); err != nil {
			return fmt.Errorf("delete review likes: %w", err)
		}

		var userID int64
		if err := tx.QueryRow(ctx,
			"DELETE FROM reviews WHERE id = $1 RETURNING user_id", id,
		).Scan(&userID); err != nil {
			if err == pgx.ErrNoRows {
				return repository.ErrNotFound
			}
			return fmt.Errorf("delete review: %w", err)
		}

		if _, err := tx.Exec(ctx,
			"UPDATE user_stats SET total_reviews = GREATEST(total_reviews - 1, 0), updated_at = NOW() WHERE user_id = $1",
			userID,
		); err != nil {
			return fmt.Errorf("drop review counter: %w", err)
		}

		return nil
	})
}

// AddLike records a like and bumps the denormalized counter. The unique
// constraint on (review_id, user_id) rejects duplicate likes.
func (r *ReviewRepository) AddLike(ctx context.Context, reviewID, userID int64) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			"INSERT INTO review_likes (review_id, user_id) VALUES ($1, $2)",
			reviewID, userID,
		); err != nil {
			if IsUniqueViolation(err, "review_likes_review_id_user_id_key") {
				return repository.ErrDuplicate
			}
			return fmt.Errorf("insert review like: %w", err)
		}

		ct, err := tx.Exec(ctx,
			"UPDATE reviews SET likes_count = likes_count + 1 WHERE id = $1",
			reviewID,
		)
		if err != nil {
			return fmt.Errorf("bump likes count: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return repository.ErrNotFound
		}

		return nil
	})
}

// RemoveLike deletes a like and decrements the counter. Removing a like that
// was never recorded reports ErrNotFound.
func (r *ReviewRepository) RemoveLike(ctx context.Context, reviewID, userID int64) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx,
			"DELETE FROM review_likes WHERE review_id = $1 AND user_id = $2",
			reviewID, userID,
		)
		if err != nil {
			return fmt.Errorf("delete review like: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return repository.ErrNotFound
		}

		if _, err := tx.Exec(ctx,
			"UPDATE reviews SET likes_count = GREATEST(likes_count - 1, 0) WHERE id = $1",
			reviewID,
		); err != nil {
			return fmt.Errorf("drop likes count: %w", err)
		}

		return nil
	})
}

var _ port.ReviewRepository = (*ReviewRepository)(nil)
