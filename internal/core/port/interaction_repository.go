package port

import (
	"context"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
)

// FavoriteWithPlace joins a favorite with its place for listing.
type FavoriteWithPlace struct {
	Favorite domain.Favorite
	Place    domain.Place
}

// VisitWithPlace joins a visit with its place for listing.
type VisitWithPlace struct {
	Visit domain.Visit
	Place domain.Place
}

// ReviewRepository persists place reviews and their likes.
type ReviewRepository interface {
	Create(ctx context.Context, review domain.Review) (*domain.Review, error)
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	// ListForPlace returns the newest published reviews with author fields joined.
	ListForPlace(ctx context.Context, placeID int64, limit int) ([]domain.Review, error)
	// Delete removes a review together with its likes.
	Delete(ctx context.Context, id int64) error
	AddLike(ctx context.Context, reviewID, userID int64) error
	RemoveLike(ctx context.Context, reviewID, userID int64) error
}

// FavoriteRepository persists per-user favorites.
type FavoriteRepository interface {
	Add(ctx context.Context, userID, placeID int64) error
	Remove(ctx context.Context, userID, placeID int64) error
	ListForUser(ctx context.Context, userID int64) ([]FavoriteWithPlace, error)
}

// RatingRepository persists standalone place ratings.
type RatingRepository interface {
	// Upsert inserts or updates the (user, place) rating and returns the new
	// average across all ratings for the place.
	Upsert(ctx context.Context, userID, placeID int64, rating int) (float64, error)
}

// VisitRepository persists visit records.
type VisitRepository interface {
	Add(ctx context.Context, userID, placeID int64) (*domain.Visit, error)
	ListForUser(ctx context.Context, userID int64) ([]VisitWithPlace, error)
}
