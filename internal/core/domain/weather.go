package domain

import "time"

// WeatherDescription is a trilingual interpretation of a WMO weather code.
type WeatherDescription struct {
	KK   string `json:"kk"`
	RU   string `json:"ru"`
	EN   string `json:"en"`
	Icon string `json:"icon"`
}

// LocalizedText carries a short message in all supported languages.
type LocalizedText struct {
	KK string `json:"kk"`
	RU string `json:"ru"`
	EN string `json:"en"`
}

// CurrentConditions is the normalized current-weather snapshot.
type CurrentConditions struct {
	Temperature   int                `json:"temperature"`
	FeelsLike     int                `json:"feels_like"`
	Humidity      int                `json:"humidity"`
	WindSpeed     int                `json:"wind_speed"`
	WindDirection int                `json:"wind_direction"`
	Precipitation float64            `json:"precipitation"`
	IsDay         bool               `json:"is_day"`
	Weather       WeatherDescription `json:"weather"`
	Icon          string             `json:"icon"`
}

// WeatherLocation names the coordinates a report was produced for.
type WeatherLocation struct {
	CityKK    string  `json:"city_kk,omitempty"`
	CityRU    string  `json:"city_ru,omitempty"`
	CityEN    string  `json:"city_en,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// WeatherReport is the cached response for the current-weather endpoint.
type WeatherReport struct {
	Location       WeatherLocation   `json:"location"`
	Current        CurrentConditions `json:"current"`
	Recommendation LocalizedText     `json:"recommendation"`
	Timestamp      time.Time         `json:"timestamp"`
}

// ForecastDay is one day of the daily forecast.
type ForecastDay struct {
	Date           string             `json:"date"`
	TemperatureMax int                `json:"temperature_max"`
	TemperatureMin int                `json:"temperature_min"`
	Precipitation  float64            `json:"precipitation"`
	Weather        WeatherDescription `json:"weather"`
}

// Forecast is the cached multi-day forecast.
type Forecast struct {
	Location string        `json:"location"`
	Days     []ForecastDay `json:"forecast"`
}
