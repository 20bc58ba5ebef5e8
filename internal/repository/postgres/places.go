package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
	"github.com/baltabekpro/tr-velMap/internal/repository"
)

const placeColumns = "p.id, p.name_kk, p.name_ru, p.name_en, p.description_kk, p.description_ru, p.description_en, " +
	"p.category, p.latitude, p.longitude, p.address, p.image_url, p.rating, p.visit_count, p.status, p.created_at, p.updated_at"

// PlaceRepository implements port.PlaceRepository using PostgreSQL.
type PlaceRepository struct {
	pool    PgxPool
	builder squirrel.StatementBuilderType
}

// NewPlaceRepository wires a PostgreSQL-backed place repository.
func NewPlaceRepository(pool PgxPool) *PlaceRepository {
	return &PlaceRepository{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanPlaceRows(rows pgx.Rows, withReviewCount bool) ([]domain.Place, error) {
	places := make([]domain.Place, 0)
	for rows.Next() {
		var place domain.Place
		dest := []any{
			&place.ID, &place.NameKK, &place.NameRU, &place.NameEN,
			&place.DescriptionKK, &place.DescriptionRU, &place.DescriptionEN,
			&place.Category, &place.Latitude, &place.Longitude,
			&place.Address, &place.ImageURL, &place.Rating,
			&place.VisitCount, &place.Status, &place.CreatedAt, &place.UpdatedAt,
		}
		if withReviewCount {
			dest = append(dest, &place.ReviewCount)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan place: %w", err)
		}
		places = append(places, place)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate places: %w", err)
	}
	return places, nil
}

// List returns active places ordered by rating, with review counts joined.
func (r *PlaceRepository) List(ctx context.Context, filter port.PlaceListFilter) ([]domain.Place, error) {
	query := r.builder.Select(placeColumns + ", COUNT(rv.id) AS review_count").
		From("places p").
		LeftJoin("reviews rv ON rv.place_id = p.id AND rv.status = 'published'").
		Where(squirrel.Eq{"p.status": domain.PlaceStatusActive}).
		GroupBy("p.id").
		OrderBy("p.rating DESC")

	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"p.category": filter.Category})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"p.name_kk": pattern},
			squirrel.ILike{"p.name_ru": pattern},
			squirrel.ILike{"p.name_en": pattern},
			squirrel.ILike{"p.description_kk": pattern},
			squirrel.ILike{"p.description_ru": pattern},
			squirrel.ILike{"p.description_en": pattern},
		})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list places sql: %w", err)
	}

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query places: %w", err)
	}
	defer rows.Close()

	return scanPlaceRows(rows, true)
}

// ListAll returns every place regardless of status.
func (r *PlaceRepository) ListAll(ctx context.Context) ([]domain.Place, error) {
	stmt, args, err := r.builder.Select(placeColumns).
		From("places p").
		OrderBy("p.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list all places sql: %w", err)
	}

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query all places: %w", err)
	}
	defer rows.Close()

	return scanPlaceRows(rows, false)
}

// GetByID retrieves a single place.
func (r *PlaceRepository) GetByID(ctx context.Context, id int64) (*domain.Place, error) {
	stmt, args, err := r.builder.Select(placeColumns).
		From("places p").
		Where(squirrel.Eq{"p.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select place sql: %w", err)
	}

	var place domain.Place
	if err := r.pool.QueryRow(ctx, stmt, args...).Scan(
		&place.ID, &place.NameKK, &place.NameRU, &place.NameEN,
		&place.DescriptionKK, &place.DescriptionRU, &place.DescriptionEN,
		&place.Category, &place.Latitude, &place.Longitude,
		&place.Address, &place.ImageURL, &place.Rating,
		&place.VisitCount, &place.Status, &place.CreatedAt, &place.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan place: %w", err)
	}

	return &place, nil
}

// Create inserts a catalog entry. Required name fields must be present in the
// draft; the usecase validates them.
func (r *PlaceRepository) Create(ctx context.Context, draft domain.PlaceDraft) (*domain.Place, error) {
	stmt, args, err := r.builder.Insert("places").
		Columns("name_kk", "name_ru", "name_en", "description_kk", "description_ru", "description_en",
			"category", "latitude", "longitude", "address", "image_url").
		Values(draft.NameKK, draft.NameRU, draft.NameEN, draft.DescriptionKK, draft.DescriptionRU, draft.DescriptionEN,
			draft.Category, draft.Latitude, draft.Longitude, draft.Address, draft.ImageURL).
		Suffix("RETURNING " + placeReturning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert place sql: %w", err)
	}

	return r.scanReturning(ctx, stmt, args)
}

// Update applies non-nil draft fields, keeping stored values otherwise.
func (r *PlaceRepository) Update(ctx context.Context, id int64, draft domain.PlaceDraft) (*domain.Place, error) {
	query := r.builder.Update("places").
		Set("updated_at", time.Now().UTC())

	if draft.NameKK != nil {
		query = query.Set("name_kk", *draft.NameKK)
	}
	if draft.NameRU != nil {
		query = query.Set("name_ru", *draft.NameRU)
	}
	if draft.NameEN != nil {
		query = query.Set("name_en", *draft.NameEN)
	}
	if draft.DescriptionKK != nil {
		query = query.Set("description_kk", *draft.DescriptionKK)
	}
	if draft.DescriptionRU != nil {
		query = query.Set("description_ru", *draft.DescriptionRU)
	}
	if draft.DescriptionEN != nil {
		query = query.Set("description_en", *draft.DescriptionEN)
	}
	if draft.Category != nil {
		query = query.Set("category", *draft.Category)
	}
	if draft.Latitude != nil {
		query = query.Set("latitude", *draft.Latitude)
	}
	if draft.Longitude != nil {
		query = query.Set("longitude", *draft.Longitude)
	}
	if draft.Address != nil {
		query = query.Set("address", *draft.Address)
	}
	if draft.ImageURL != nil {
		query = query.Set("image_url", *draft.ImageURL)
	}

	stmt, args, err := query.
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + placeReturning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update place sql: %w", err)
	}

	return r.scanReturning(ctx, stmt, args)
}

func placeReturning() string {
	return "id, name_kk, name_ru, name_en, description_kk, description_ru, description_en, " +
		"category, latitude, longitude, address, image_url, rating, visit_count, status, created_at, updated_at"
}

func (r *PlaceRepository) scanReturning(ctx context.Context, stmt string, args []any) (*domain.Place, error) {
	var place domain.Place
	if err := r.pool.QueryRow(ctx, stmt, args...).Scan(
		&place.ID, &place.NameKK, &place.NameRU, &place.NameEN,
		&place.DescriptionKK, &place.DescriptionRU, &place.DescriptionEN,
		&place.Category, &place.Latitude, &place.Longitude,
		&place.Address, &place.ImageURL, &place.Rating,
		&place.VisitCount, &place.Status, &place.CreatedAt, &place.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan place: %w", err)
	}
	return &place, nil
}

// Deactivate soft-deletes by flipping status to inactive.
func (r *PlaceRepository) Deactivate(ctx context.Context, id int64) error {
	stmt, args, err := r.builder.Update("places").
		Set("status", domain.PlaceStatusInactive).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deactivate place sql: %w", err)
	}

	ct, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("deactivate place: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// IncrementVisitCount bumps the aggregate visit counter.
func (r *PlaceRepository) IncrementVisitCount(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, "UPDATE places SET visit_count = visit_count + 1 WHERE id = $1", id); err != nil {
		return fmt.Errorf("increment visit count: %w", err)
	}
	return nil
}

var _ port.PlaceRepository = (*PlaceRepository)(nil)
