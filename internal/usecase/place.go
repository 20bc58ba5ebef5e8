package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
	"github.com/baltabekpro/tr-velMap/internal/infra/logger"
	"github.com/baltabekpro/tr-velMap/internal/repository"
)

// ErrPlaceNotFound indicates the requested place does not exist.
var ErrPlaceNotFound = errors.New("place not found")

// recentReviewLimit caps the reviews attached to a single place view.
const recentReviewLimit = 10

// PlaceService serves the public catalog and the admin catalog mutations.
type PlaceService struct {
	places  port.PlaceRepository
	reviews port.ReviewRepository
	logs    port.AdminLogRepository
}

// NewPlaceService constructs a PlaceService.
func NewPlaceService(places port.PlaceRepository, reviews port.ReviewRepository, logs port.AdminLogRepository) *PlaceService {
	return &PlaceService{places: places, reviews: reviews, logs: logs}
}

// List returns active places matching the filter.
func (s *PlaceService) List(ctx context.Context, filter port.PlaceListFilter) ([]domain.Place, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}

	places, err := s.places.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	return places, nil
}

// Get returns one place with its recent published reviews. Every fetch bumps
// the aggregate visit counter; counting must not block the read path.
func (s *PlaceService) Get(ctx context.Context, id int64) (*domain.Place, []domain.Review, error) {
	place, err := s.places.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrPlaceNotFound
		}
		return nil, nil, fmt.Errorf("get place: %w", err)
	}

	if err := s.places.IncrementVisitCount(ctx, id); err != nil {
		logger.WithContext(ctx).Warn("increment visit count failed",
			zap.Int64("place_id", id), zap.Error(err))
	}

	reviews, err := s.reviews.ListForPlace(ctx, id, recentReviewLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("list reviews: %w", err)
	}

	return place, reviews, nil
}

// ListAll returns every place regardless of status, for the back office.
func (s *PlaceService) ListAll(ctx context.Context) ([]domain.Place, error) {
	places, err := s.places.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all places: %w", err)
	}
	return places, nil
}

// Create adds a catalog entry. All three names, a category and coordinates
// are required.
func (s *PlaceService) Create(ctx context.Context, adminID int64, draft domain.PlaceDraft) (*domain.Place, error) {
	if isBlank(draft.NameKK) || isBlank(draft.NameRU) || isBlank(draft.NameEN) {
		return nil, NewValidationError("names in all languages are required")
	}
	if isBlank(draft.Category) {
		return nil, NewValidationError("category is required")
	}
	if draft.Latitude == nil || draft.Longitude == nil {
		return nil, NewValidationError("latitude and longitude are required")
	}
	if err := validateCoordinates(*draft.Latitude, *draft.Longitude); err != nil {
		return nil, err
	}

	place, err := s.places.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("create place: %w", err)
	}

	s.logPlaceAction(ctx, adminID, "create_place", place.ID, place.NameEN)
	return place, nil
}

// Update applies the provided draft fields to an existing entry.
func (s *PlaceService) Update(ctx context.Context, adminID, id int64, draft domain.PlaceDraft) (*domain.Place, error) {
	if draft.Latitude != nil && draft.Longitude != nil {
		if err := validateCoordinates(*draft.Latitude, *draft.Longitude); err != nil {
			return nil, err
		}
	}

	place, err := s.places.Update(ctx, id, draft)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlaceNotFound
		}
		return nil, fmt.Errorf("update place: %w", err)
	}

	s.logPlaceAction(ctx, adminID, "update_place", place.ID, place.NameEN)
	return place, nil
}

// Deactivate hides a place from the public catalog without deleting history.
func (s *PlaceService) Deactivate(ctx context.Context, adminID, id int64) error {
	if err := s.places.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlaceNotFound
		}
		return fmt.Errorf("deactivate place: %w", err)
	}

	s.logPlaceAction(ctx, adminID, "deactivate_place", id, "")
	return nil
}

// DeleteReview removes another user's review on behalf of an administrator
// and records the removal in the audit log.
func (s *PlaceService) DeleteReview(ctx context.Context, adminID, reviewID int64) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("lookup review: %w", err)
	}

	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("delete review: %w", err)
	}

	if s.logs != nil {
		description := fmt.Sprintf("removed review by user %d for place %d", review.UserID, review.PlaceID)
		entry := domain.AdminLog{
			AdminID:     &adminID,
			Action:      "delete_review",
			TargetType:  "review",
			TargetID:    &reviewID,
			Description: &description,
		}
		// Best effort, same policy as the place mutations.
		_ = s.logs.Append(ctx, entry)
	}

	return nil
}

func (s *PlaceService) logPlaceAction(ctx context.Context, adminID int64, action string, placeID int64, name string) {
	if s.logs == nil {
		return
	}

	description := name
	entry := domain.AdminLog{
		AdminID:    &adminID,
		Action:     action,
		TargetType: "place",
		TargetID:   &placeID,
	}
	if description != "" {
		entry.Description = &description
	}
	// Best effort, same policy as user audit records.
	_ = s.logs.Append(ctx, entry)
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return NewValidationError("latitude must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return NewValidationError("longitude must be between -180 and 180")
	}
	return nil
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}
