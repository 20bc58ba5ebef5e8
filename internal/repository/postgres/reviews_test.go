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

func TestReviewRepository_CreateBumpsAuthorCounter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewReviewRepository(mock)
	now := time.Now().UTC()
	comment := "керемет орын"

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO reviews`).
		WithArgs(int64(7), int64(3), 5, &comment).
		WillReturnRows(mock.NewRows([]string{
			"id", "user_id", "place_id", "rating", "comment", "status", "likes_count", "created_at",
		}).AddRow(int64(12), int64(7), int64(3), 5, &comment, domain.ReviewStatusPublished, 0, now))
	mock.ExpectExec(`UPDATE user_stats SET total_reviews = total_reviews \+ 1`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), domain.Review{
		UserID:  7,
		PlaceID: 3,
		Rating:  5,
		Comment: &comment,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != 12 || created.Status != domain.ReviewStatusPublished {
		t.Fatalf("unexpected review: %+v", created)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReviewRepository_DeleteRemovesLikesAndCounter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewReviewRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM review_likes WHERE review_id = \$1`).
		WithArgs(int64(12)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectQuery(`DELETE FROM reviews WHERE id = \$1 RETURNING user_id`).
		WithArgs(int64(12)).
		WillReturnRows(mock.NewRows([]string{"user_id"}).AddRow(int64(7)))
	mock.ExpectExec(`UPDATE user_stats SET total_reviews = GREATEST\(total_reviews - 1, 0\)`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	if err := repo.Delete(context.Background(), 12); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReviewRepository_DeleteMissingReview(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewReviewRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM review_likes WHERE review_id = \$1`).
		WithArgs(int64(404)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectQuery(`DELETE FROM reviews WHERE id = \$1 RETURNING user_id`).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	if err := repo.Delete(context.Background(), 404); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected repository.ErrNotFound, got %v", err)
	}
}

func TestReviewRepository_AddLike(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewReviewRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO review_likes`).
		WithArgs(int64(12), int64(7)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`UPDATE reviews SET likes_count = likes_count \+ 1`).
		WithArgs(int64(12)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	if err := repo.AddLike(context.Background(), 12, 7); err != nil {
		t.Fatalf("AddLike returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReviewRepository_AddLikeDuplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewReviewRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO review_likes`).
		WithArgs(int64(12), int64(7)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "review_likes_review_id_user_id_key"})
	mock.ExpectRollback()

	if err := repo.AddLike(context.Background(), 12, 7); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected repository.ErrDuplicate, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReviewRepository_AddLikeUnknownReview(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewReviewRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO review_likes`).
		WithArgs(int64(404), int64(7)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`UPDATE reviews SET likes_count = likes_count \+ 1`).
		WithArgs(int64(404)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	if err := repo.AddLike(context.Background(), 404, 7); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected repository.ErrNotFound, got %v", err)
	}
}

func TestReviewRepository_RemoveLikeWithoutLike(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewReviewRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM review_likes`).
		WithArgs(int64(12), int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	if err := repo.RemoveLike(context.Background(), 12, 7); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected repository.ErrNotFound, got %v", err)
	}
}

func TestReviewRepository_RemoveLike(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewReviewRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM review_likes`).
		WithArgs(int64(12), int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`UPDATE reviews SET likes_count = GREATEST\(likes_count - 1, 0\)`).
		WithArgs(int64(12)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	if err := repo.RemoveLike(context.Background(), 12, 7); err != nil {
		t.Fatalf("RemoveLike returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
