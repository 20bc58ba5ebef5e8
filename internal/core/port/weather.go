package port

import "context"

// WeatherObservation is the raw current-conditions payload from the upstream
// provider, prior to interpretation.
type WeatherObservation struct {
	Temperature   float64
	FeelsLike     float64
	Humidity      int
	WindSpeed     float64
	WindDirection int
	Precipitation float64
	IsDay         bool
	WeatherCode   int
}

// DailyForecast is one raw day from the upstream provider.
type DailyForecast struct {
	Date           string
	TemperatureMax float64
	TemperatureMin float64
	Precipitation  float64
	WeatherCode    int
}

// WeatherProvider fetches conditions from the upstream weather API.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (*WeatherObservation, error)
	Daily(ctx context.Context, lat, lon float64, days int) ([]DailyForecast, error)
}
