package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
)

// averageSpeedKMH is the assumed driving speed for duration estimates.
const averageSpeedKMH = 60.0

// MapService builds map markers and straight-line route estimates from the
// place catalog.
type MapService struct {
	places port.PlaceRepository
}

// NewMapService constructs a MapService.
func NewMapService(places port.PlaceRepository) *MapService {
	return &MapService{places: places}
}

// Markers converts active places into map markers with category styling, plus
// the bounding box over all of them.
func (s *MapService) Markers(ctx context.Context, category string) ([]domain.Marker, *domain.Bounds, error) {
	places, err := s.places.List(ctx, port.PlaceListFilter{Category: category, Limit: 100})
	if err != nil {
		return nil, nil, fmt.Errorf("list places: %w", err)
	}

	markers := make([]domain.Marker, 0, len(places))
	for _, place := range places {
		markers = append(markers, markerOf(place))
	}

	return markers, boundsOf(places), nil
}

func markerOf(place domain.Place) domain.Marker {
	marker := domain.Marker{
		ID:       place.ID,
		Position: domain.LatLng{Lat: place.Latitude, Lng: place.Longitude},
		Title: domain.LocalizedText{
			KK: place.NameKK,
			RU: place.NameRU,
			EN: place.NameEN,
		},
		Category: place.Category,
		Rating:   place.Rating,
		Image:    place.ImageURL,
		Address:  place.Address,
		Color:    categoryColor(place.Category),
		Icon:     categoryIcon(place.Category),
	}

	if place.DescriptionKK != nil || place.DescriptionRU != nil || place.DescriptionEN != nil {
		marker.Description = &domain.LocalizedText{
			KK: deref(place.DescriptionKK),
			RU: deref(place.DescriptionRU),
			EN: deref(place.DescriptionEN),
		}
	}

	return marker
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func boundsOf(places []domain.Place) *domain.Bounds {
	if len(places) == 0 {
		return nil
	}

	bounds := &domain.Bounds{
		North: places[0].Latitude,
		South: places[0].Latitude,
		East:  places[0].Longitude,
		West:  places[0].Longitude,
	}
	for _, place := range places[1:] {
		bounds.North = math.Max(bounds.North, place.Latitude)
		bounds.South = math.Min(bounds.South, place.Latitude)
		bounds.East = math.Max(bounds.East, place.Longitude)
		bounds.West = math.Min(bounds.West, place.Longitude)
	}
	return bounds
}

// Route estimates a straight-line drive between two coordinates and links to
// Google Maps for actual navigation.
func (s *MapService) Route(_ context.Context, from, to domain.LatLng) (*domain.Route, error) {
	if err := validateCoordinates(from.Lat, from.Lng); err != nil {
		return nil, err
	}
	if err := validateCoordinates(to.Lat, to.Lng); err != nil {
		return nil, err
	}

	distance := domain.HaversineKM(from, to)
	duration := int(math.Round(distance / averageSpeedKMH * 60))

	return &domain.Route{
		From:        from,
		To:          to,
		DistanceKM:  math.Round(distance*10) / 10,
		DurationMin: duration,
		GoogleMapsURL: fmt.Sprintf(
			"https://www.google.com/maps/dir/%f,%f/%f,%f",
			from.Lat, from.Lng, to.Lat, to.Lng,
		),
	}, nil
}

func categoryColor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return "#6b7280"
}

func categoryIcon(category string) string {
	if i, ok := categoryIcons[category]; ok {
		return i
	}
	return "📍"
}

var categoryColors = map[string]string{
	"nature":        "#22c55e",
	"mountain":      "#8b5cf6",
	"entertainment": "#f59e0b",
	"culture":       "#3b82f6",
	"park":          "#10b981",
}

var categoryIcons = map[string]string{
	"nature":        "🌲",
	"mountain":      "⛰️",
	"entertainment": "🎡",
	"culture":       "🏛️",
	"park":          "🌳",
}
