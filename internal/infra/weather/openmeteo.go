package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/baltabekpro/tr-velMap/internal/core/port"
	"github.com/baltabekpro/tr-velMap/internal/infra/config"
)

// OpenMeteoClient fetches conditions from the Open-Meteo forecast API. The
// API is unauthenticated; only a timeout-bounded HTTP client is needed.
type OpenMeteoClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewOpenMeteoClient constructs a client from weather settings.
func NewOpenMeteoClient(cfg config.WeatherSettings, logger *zap.Logger) *OpenMeteoClient {
	return &OpenMeteoClient{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		logger:  logger,
	}
}

type currentResponse struct {
	Current struct {
		Temperature   float64 `json:"temperature_2m"`
		Humidity      int     `json:"relative_humidity_2m"`
		FeelsLike     float64 `json:"apparent_temperature"`
		IsDay         int     `json:"is_day"`
		Precipitation float64 `json:"precipitation"`
		WeatherCode   int     `json:"weather_code"`
		WindSpeed     float64 `json:"wind_speed_10m"`
		WindDirection int     `json:"wind_direction_10m"`
	} `json:"current"`
}

type dailyResponse struct {
	Daily struct {
		Time           []string  `json:"time"`
		TemperatureMax []float64 `json:"temperature_2m_max"`
		TemperatureMin []float64 `json:"temperature_2m_min"`
		Precipitation  []float64 `json:"precipitation_sum"`
		WeatherCode    []int     `json:"weather_code"`
	} `json:"daily"`
}

// Current fetches current conditions for the given coordinates.
func (c *OpenMeteoClient) Current(ctx context.Context, lat, lon float64) (*port.WeatherObservation, error) {
	query := url.Values{}
	query.Set("latitude", formatCoord(lat))
	query.Set("longitude", formatCoord(lon))
	query.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,is_day,precipitation,rain,weather_code,wind_speed_10m,wind_direction_10m")
	query.Set("timezone", "Asia/Almaty")
	query.Set("forecast_days", "1")

	var parsed currentResponse
	if err := c.get(ctx, query, &parsed); err != nil {
		return nil, err
	}

	cur := parsed.Current
	return &port.WeatherObservation{
		Temperature:   cur.Temperature,
		FeelsLike:     cur.FeelsLike,
		Humidity:      cur.Humidity,
		WindSpeed:     cur.WindSpeed,
		WindDirection: cur.WindDirection,
		Precipitation: cur.Precipitation,
		IsDay:         cur.IsDay == 1,
		WeatherCode:   cur.WeatherCode,
	}, nil
}

// Daily fetches the daily forecast for the given coordinates.
func (c *OpenMeteoClient) Daily(ctx context.Context, lat, lon float64, days int) ([]port.DailyForecast, error) {
	query := url.Values{}
	query.Set("latitude", formatCoord(lat))
	query.Set("longitude", formatCoord(lon))
	query.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum,weather_code")
	query.Set("timezone", "Asia/Almaty")
	query.Set("forecast_days", strconv.Itoa(days))

	var parsed dailyResponse
	if err := c.get(ctx, query, &parsed); err != nil {
		return nil, err
	}

	daily := parsed.Daily
	forecast := make([]port.DailyForecast, 0, len(daily.Time))
	for i, date := range daily.Time {
		if i >= len(daily.TemperatureMax) || i >= len(daily.TemperatureMin) ||
			i >= len(daily.Precipitation) || i >= len(daily.WeatherCode) {
			break
		}
		forecast = append(forecast, port.DailyForecast{
			Date:           date,
			TemperatureMax: daily.TemperatureMax[i],
			TemperatureMin: daily.TemperatureMin[i],
			Precipitation:  daily.Precipitation[i],
			WeatherCode:    daily.WeatherCode[i],
		})
	}

	return forecast, nil
}

func (c *OpenMeteoClient) get(ctx context.Context, query url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/v1/forecast?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weather upstream returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode weather response: %w", err)
	}

	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

var _ port.WeatherProvider = (*OpenMeteoClient)(nil)
