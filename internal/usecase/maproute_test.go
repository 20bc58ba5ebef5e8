package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
)

func TestMapService_Markers(t *testing.T) {
	mountain := samplePlace()
	mountain.ID = 1
	mountain.Category = "mountain"
	mountain.Latitude = 43.1
	mountain.Longitude = 76.9

	park := samplePlace()
	park.ID = 2
	park.Category = "park"
	park.Latitude = 43.3
	park.Longitude = 77.0
	park.DescriptionEN = strPtr("City park")

	places := &stubPlaceRepo{
		listFn: func(_ context.Context, filter port.PlaceListFilter) ([]domain.Place, error) {
			if filter.Limit != 100 {
				t.Fatalf("expected marker limit 100, got %d", filter.Limit)
			}
			return []domain.Place{mountain, park}, nil
		},
	}
	service := NewMapService(places)

	markers, bounds, err := service.Markers(context.Background(), "")
	if err != nil {
		t.Fatalf("Markers returned error: %v", err)
	}
	if len(markers) != 2 {
		t.Fatalf("expected two markers, got %d", len(markers))
	}

	if markers[0].Color != "#8b5cf6" || markers[0].Icon != "⛰️" {
		t.Fatalf("unexpected mountain styling: %s %s", markers[0].Color, markers[0].Icon)
	}
	if markers[1].Color != "#10b981" || markers[1].Icon != "🌳" {
		t.Fatalf("unexpected park styling: %s %s", markers[1].Color, markers[1].Icon)
	}
	if markers[0].Description != nil {
		t.Fatal("expected no description block without description fields")
	}
	if markers[1].Description == nil || markers[1].Description.EN != "City park" {
		t.Fatalf("unexpected park description: %+v", markers[1].Description)
	}

	if bounds == nil {
		t.Fatal("expected bounds for non-empty marker set")
	}
	if bounds.North != 43.3 || bounds.South != 43.1 || bounds.East != 77.0 || bounds.West != 76.9 {
		t.Fatalf("unexpected bounds: %+v", bounds)
	}
}

func TestMapService_MarkersUnknownCategoryStyling(t *testing.T) {
	exotic := samplePlace()
	exotic.Category = "observatory"

	places := &stubPlaceRepo{
		listFn: func(context.Context, port.PlaceListFilter) ([]domain.Place, error) {
			return []domain.Place{exotic}, nil
		},
	}
	service := NewMapService(places)

	markers, _, err := service.Markers(context.Background(), "")
	if err != nil {
		t.Fatalf("Markers returned error: %v", err)
	}
	if markers[0].Color != "#6b7280" || markers[0].Icon != "📍" {
		t.Fatalf("expected default styling, got %s %s", markers[0].Color, markers[0].Icon)
	}
}

func TestMapService_MarkersEmptyCatalog(t *testing.T) {
	places := &stubPlaceRepo{
		listFn: func(context.Context, port.PlaceListFilter) ([]domain.Place, error) {
			return nil, nil
		},
	}
	service := NewMapService(places)

	markers, bounds, err := service.Markers(context.Background(), "")
	if err != nil {
		t.Fatalf("Markers returned error: %v", err)
	}
	if len(markers) != 0 {
		t.Fatalf("expected no markers, got %d", len(markers))
	}
	if bounds != nil {
		t.Fatalf("expected nil bounds for empty catalog, got %+v", bounds)
	}
}

func TestMapService_Route(t *testing.T) {
	service := NewMapService(&stubPlaceRepo{})

	// Almaty center to Medeu, roughly 13 km by straight line.
	from := domain.LatLng{Lat: 43.2380, Lng: 76.9490}
	to := domain.LatLng{Lat: 43.1572, Lng: 77.0606}

	route, err := service.Route(context.Background(), from, to)
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}

	if route.DistanceKM < 12 || route.DistanceKM > 14 {
		t.Fatalf("expected roughly 13 km, got %v", route.DistanceKM)
	}
	if route.DurationMin < 12 || route.DurationMin > 14 {
		t.Fatalf("expected roughly 13 minutes at 60 km/h, got %d", route.DurationMin)
	}
	if !strings.HasPrefix(route.GoogleMapsURL, "https://www.google.com/maps/dir/") {
		t.Fatalf("unexpected maps url: %s", route.GoogleMapsURL)
	}
}

func TestMapService_RouteValidation(t *testing.T) {
	service := NewMapService(&stubPlaceRepo{})
	ctx := context.Background()

	_, err := service.Route(ctx, domain.LatLng{Lat: 200, Lng: 76}, domain.LatLng{Lat: 43, Lng: 77})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for bad origin, got %v", err)
	}

	_, err = service.Route(ctx, domain.LatLng{Lat: 43, Lng: 76}, domain.LatLng{Lat: 43, Lng: 999})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for bad destination, got %v", err)
	}
}
