package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
	"github.com/baltabekpro/tr-velMap/internal/repository"
)

var (
	// ErrReviewNotFound indicates the targeted review does not exist.
	ErrReviewNotFound = errors.New("review not found")
	// ErrAlreadyExists indicates the user already recorded this interaction.
	ErrAlreadyExists = errors.New("already exists")
)

// UserPlacesService covers the authenticated interactions with the catalog:
// reviews, likes, favorites, ratings and visit history.
type UserPlacesService struct {
	places    port.PlaceRepository
	reviews   port.ReviewRepository
	favorites port.FavoriteRepository
	ratings   port.RatingRepository
	visits    port.VisitRepository
}

// NewUserPlacesService constructs a UserPlacesService.
func NewUserPlacesService(
	places port.PlaceRepository,
	reviews port.ReviewRepository,
	favorites port.FavoriteRepository,
	ratings port.RatingRepository,
	visits port.VisitRepository,
) *UserPlacesService {
	return &UserPlacesService{
		places:    places,
		reviews:   reviews,
		favorites: favorites,
		ratings:   ratings,
		visits:    visits,
	}
}

// requirePlace verifies the place exists before recording an interaction.
func (s *UserPlacesService) requirePlace(ctx context.Context, placeID int64) error {
	if _, err := s.places.GetByID(ctx, placeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlaceNotFound
		}
		return fmt.Errorf("get place: %w", err)
	}
	return nil
}

// AddReview records a review with a 1..5 rating and optional comment.
func (s *UserPlacesService) AddReview(ctx context.Context, userID, placeID int64, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, NewValidationError("rating must be between 1 and 5")
	}
	if err := s.requirePlace(ctx, placeID); err != nil {
		return nil, err
	}

	review := domain.Review{
		UserID:  userID,
		PlaceID: placeID,
		Rating:  rating,
	}
	if comment != "" {
		review.Comment = &comment
	}

	created, err := s.reviews.Create(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return created, nil
}

// ListReviews returns the newest published reviews for a place.
func (s *UserPlacesService) ListReviews(ctx context.Context, placeID int64, limit int) ([]domain.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	reviews, err := s.reviews.ListForPlace(ctx, placeID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// LikeReview records a like. Liking the same review twice is a conflict.
func (s *UserPlacesService) LikeReview(ctx context.Context, userID, reviewID int64) error {
	if _, err := s.reviews.GetByID(ctx, reviewID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("get review: %w", err)
	}

	if err := s.reviews.AddLike(ctx, reviewID, userID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("add like: %w", err)
	}
	return nil
}

// UnlikeReview removes a previously recorded like.
func (s *UserPlacesService) UnlikeReview(ctx context.Context, userID, reviewID int64) error {
	if err := s.reviews.RemoveLike(ctx, reviewID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("remove like: %w", err)
	}
	return nil
}

// AddFavorite saves a place to the user's favorites.
func (s *UserPlacesService) AddFavorite(ctx context.Context, userID, placeID int64) error {
	if err := s.requirePlace(ctx, placeID); err != nil {
		return err
	}

	if err := s.favorites.Add(ctx, userID, placeID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite drops a place from the user's favorites.
func (s *UserPlacesService) RemoveFavorite(ctx context.Context, userID, placeID int64) error {
	if err := s.favorites.Remove(ctx, userID, placeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlaceNotFound
		}
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// ListFavorites returns the user's favorites joined with their places.
func (s *UserPlacesService) ListFavorites(ctx context.Context, userID int64) ([]port.FavoriteWithPlace, error) {
	favorites, err := s.favorites.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}

// RatePlace records or replaces the user's 1..5 rating and returns the new
// average for the place.
func (s *UserPlacesService) RatePlace(ctx context.Context, userID, placeID int64, rating int) (float64, error) {
	if rating < 1 || rating > 5 {
		return 0, NewValidationError("rating must be between 1 and 5")
	}
	if err := s.requirePlace(ctx, placeID); err != nil {
		return 0, err
	}

	avg, err := s.ratings.Upsert(ctx, userID, placeID, rating)
	if err != nil {
		return 0, fmt.Errorf("upsert rating: %w", err)
	}
	return avg, nil
}

// RecordVisit marks the place as visited. Repeat visits are allowed.
func (s *UserPlacesService) RecordVisit(ctx context.Context, userID, placeID int64) (*domain.Visit, error) {
	if err := s.requirePlace(ctx, placeID); err != nil {
		return nil, err
	}

	visit, err := s.visits.Add(ctx, userID, placeID)
	if err != nil {
		return nil, fmt.Errorf("record visit: %w", err)
	}
	return visit, nil
}

// ListVisits returns the user's visit history joined with places.
func (s *UserPlacesService) ListVisits(ctx context.Context, userID int64) ([]port.VisitWithPlace, error) {
	visits, err := s.visits.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	return visits, nil
}
