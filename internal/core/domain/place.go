package domain

import "time"

// PlaceStatus enumerates catalog entry visibility states.
type PlaceStatus string

const (
	PlaceStatusActive   PlaceStatus = "active"
	PlaceStatusInactive PlaceStatus = "inactive"
)

// Place is a catalog entry with trilingual naming (Kazakh, Russian, English).
type Place struct {
	ID            int64
	NameKK        string
	NameRU        string
	NameEN        string
	DescriptionKK *string
	DescriptionRU *string
	DescriptionEN *string
	Category      string
	Latitude      float64
	Longitude     float64
	Address       *string
	ImageURL      *string
	Rating        float64
	VisitCount    int
	ReviewCount   int
	Status        PlaceStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PlaceDraft carries the writable fields for create and update operations.
// Nil pointers on update keep the stored value.
type PlaceDraft struct {
	NameKK        *string
	NameRU        *string
	NameEN        *string
	DescriptionKK *string
	DescriptionRU *string
	DescriptionEN *string
	Category      *string
	Latitude      *float64
	Longitude     *float64
	Address       *string
	ImageURL      *string
}
