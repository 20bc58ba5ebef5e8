package domain

import "math"

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is a bounding box over a set of coordinates.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Marker is the map representation of a place.
type Marker struct {
	ID            int64          `json:"id"`
	Position      LatLng         `json:"position"`
	Title         LocalizedText  `json:"title"`
	Description   *LocalizedText `json:"description,omitempty"`
	Category      string         `json:"category"`
	Rating        float64        `json:"rating"`
	Image         *string        `json:"image,omitempty"`
	Address       *string        `json:"address,omitempty"`
	Color         string         `json:"color"`
	Icon          string         `json:"icon"`
}

// Route is a straight-line driving estimate between two points.
type Route struct {
	From          LatLng  `json:"from"`
	To            LatLng  `json:"to"`
	DistanceKM    float64 `json:"distance"`
	DurationMin   int     `json:"duration"`
	GoogleMapsURL string  `json:"google_maps_url"`
}

const earthRadiusKM = 6371

// HaversineKM returns the great-circle distance between two coordinates in
// kilometers.
func HaversineKM(from, to LatLng) float64 {
	dLat := radians(to.Lat - from.Lat)
	dLng := radians(to.Lng - from.Lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(from.Lat))*math.Cos(radians(to.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
