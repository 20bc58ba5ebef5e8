package port

import (
	"context"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
)

// PlaceListFilter narrows the public place listing.
type PlaceListFilter struct {
	Category string
	Search   string
	Limit    int
}

// PlaceRepository exposes persistence behavior for the place catalog.
type PlaceRepository interface {
	List(ctx context.Context, filter PlaceListFilter) ([]domain.Place, error)
	// ListAll returns every place regardless of status, for admin and map use.
	ListAll(ctx context.Context) ([]domain.Place, error)
	GetByID(ctx context.Context, id int64) (*domain.Place, error)
	Create(ctx context.Context, draft domain.PlaceDraft) (*domain.Place, error)
	Update(ctx context.Context, id int64, draft domain.PlaceDraft) (*domain.Place, error)
	// Deactivate soft-deletes by flipping status to inactive.
	Deactivate(ctx context.Context, id int64) error
	IncrementVisitCount(ctx context.Context, id int64) error
}
