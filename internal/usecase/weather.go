package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
	"github.com/baltabekpro/tr-velMap/internal/infra/logger"
	"github.com/baltabekpro/tr-velMap/internal/infra/telemetry"
)

// WeatherService serves current conditions and forecasts through a
// read-through cache. The cache and its TTL are injected; nothing here
// hard-codes cache policy.
type WeatherService struct {
	provider port.WeatherProvider
	cache    port.Cache
	cacheTTL time.Duration

	defaultLat float64
	defaultLon float64
	now        func() time.Time
}

// NewWeatherService constructs a WeatherService. The default coordinates are
// used by the city-level endpoints.
func NewWeatherService(provider port.WeatherProvider, cache port.Cache, cacheTTL time.Duration, defaultLat, defaultLon float64) *WeatherService {
	return &WeatherService{
		provider:   provider,
		cache:      cache,
		cacheTTL:   cacheTTL,
		defaultLat: defaultLat,
		defaultLon: defaultLon,
		now:        time.Now,
	}
}

// Current returns conditions for the default city.
func (s *WeatherService) Current(ctx context.Context) (*domain.WeatherReport, error) {
	report, err := s.CurrentAt(ctx, s.defaultLat, s.defaultLon)
	if err != nil {
		return nil, err
	}

	report.Location.CityKK = "Алматы"
	report.Location.CityRU = "Алматы"
	report.Location.CityEN = "Almaty"
	return report, nil
}

// CurrentAt returns conditions for arbitrary coordinates.
func (s *WeatherService) CurrentAt(ctx context.Context, lat, lon float64) (*domain.WeatherReport, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("current:%.4f:%.4f", lat, lon)

	var cached domain.WeatherReport
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	observation, err := s.provider.Current(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("fetch current weather: %w", err)
	}

	report := s.buildReport(lat, lon, observation)
	s.writeCache(ctx, key, report)
	return report, nil
}

// Forecast returns the daily forecast for the default city.
func (s *WeatherService) Forecast(ctx context.Context, days int) (*domain.Forecast, error) {
	if days <= 0 || days > 14 {
		days = 7
	}

	key := fmt.Sprintf("forecast:%.4f:%.4f:%d", s.defaultLat, s.defaultLon, days)

	var cached domain.Forecast
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	daily, err := s.provider.Daily(ctx, s.defaultLat, s.defaultLon, days)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}

	forecast := &domain.Forecast{Location: "Almaty"}
	for _, day := range daily {
		forecast.Days = append(forecast.Days, domain.ForecastDay{
			Date:           day.Date,
			TemperatureMax: int(math.Round(day.TemperatureMax)),
			TemperatureMin: int(math.Round(day.TemperatureMin)),
			Precipitation:  day.Precipitation,
			Weather:        DescribeWeatherCode(day.WeatherCode),
		})
	}

	s.writeCache(ctx, key, forecast)
	return forecast, nil
}

func (s *WeatherService) buildReport(lat, lon float64, observation *port.WeatherObservation) *domain.WeatherReport {
	description := DescribeWeatherCode(observation.WeatherCode)

	return &domain.WeatherReport{
		Location: domain.WeatherLocation{
			Latitude:  lat,
			Longitude: lon,
		},
		Current: domain.CurrentConditions{
			Temperature:   int(math.Round(observation.Temperature)),
			FeelsLike:     int(math.Round(observation.FeelsLike)),
			Humidity:      observation.Humidity,
			WindSpeed:     int(math.Round(observation.WindSpeed)),
			WindDirection: observation.WindDirection,
			Precipitation: observation.Precipitation,
			IsDay:         observation.IsDay,
			Weather:       description,
			Icon:          description.Icon,
		},
		Recommendation: RecommendForTemperature(observation.Temperature, observation.WeatherCode),
		Timestamp:      s.now().UTC(),
	}
}

func (s *WeatherService) readCache(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		telemetry.WeatherCacheEvents.WithLabelValues("miss").Inc()
		return false
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		logger.WithContext(ctx).Warn("decode cached weather failed", zap.Error(err))
		telemetry.WeatherCacheEvents.WithLabelValues("miss").Inc()
		return false
	}

	telemetry.WeatherCacheEvents.WithLabelValues("hit").Inc()
	return true
}

func (s *WeatherService) writeCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		logger.WithContext(ctx).Warn("encode weather for cache failed", zap.Error(err))
		return
	}

	if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
		logger.WithContext(ctx).Warn("cache weather failed", zap.Error(err))
	}
}

// DescribeWeatherCode interprets a WMO weather code into trilingual text and
// an emoji icon. Unknown codes fall back to a generic description.
func DescribeWeatherCode(code int) domain.WeatherDescription {
	if d, ok := weatherCodes[code]; ok {
		return d
	}
	return domain.WeatherDescription{KK: "Белгісіз", RU: "Неизвестно", EN: "Unknown", Icon: "🌡️"}
}

var weatherCodes = map[int]domain.WeatherDescription{
	0:  {KK: "Ашық", RU: "Ясно", EN: "Clear", Icon: "☀️"},
	1:  {KK: "Негізінен ашық", RU: "Преимущественно ясно", EN: "Mainly clear", Icon: "🌤️"},
	2:  {KK: "Жартылай бұлтты", RU: "Переменная облачность", EN: "Partly cloudy", Icon: "⛅"},
	3:  {KK: "Бұлтты", RU: "Пасмурно", EN: "Overcast", Icon: "☁️"},
	45: {KK: "Тұман", RU: "Туман", EN: "Fog", Icon: "🌫️"},
	48: {KK: "Қырау тұманы", RU: "Изморозь", EN: "Rime fog", Icon: "🌫️"},
	51: {KK: "Жеңіл сіркіреу", RU: "Лёгкая морось", EN: "Light drizzle", Icon: "🌦️"},
	53: {KK: "Сіркіреу", RU: "Морось", EN: "Drizzle", Icon: "🌦️"},
	55: {KK: "Қалың сіркіреу", RU: "Сильная морось", EN: "Dense drizzle", Icon: "🌧️"},
	61: {KK: "Жеңіл жаңбыр", RU: "Небольшой дождь", EN: "Light rain", Icon: "🌧️"},
	63: {KK: "Жаңбыр", RU: "Дождь", EN: "Rain", Icon: "🌧️"},
	65: {KK: "Қатты жаңбыр", RU: "Сильный дождь", EN: "Heavy rain", Icon: "🌧️"},
	71: {KK: "Жеңіл қар", RU: "Небольшой снег", EN: "Light snow", Icon: "🌨️"},
	73: {KK: "Қар", RU: "Снег", EN: "Snow", Icon: "🌨️"},
	75: {KK: "Қатты қар", RU: "Сильный снег", EN: "Heavy snow", Icon: "❄️"},
	77: {KK: "Қар түйіршіктері", RU: "Снежная крупа", EN: "Snow grains", Icon: "❄️"},
	80: {KK: "Жаңбырлы нөсер", RU: "Ливень", EN: "Rain showers", Icon: "🌦️"},
	81: {KK: "Нөсер", RU: "Сильный ливень", EN: "Heavy showers", Icon: "🌧️"},
	82: {KK: "Қатты нөсер", RU: "Очень сильный ливень", EN: "Violent showers", Icon: "⛈️"},
	85: {KK: "Қар жауады", RU: "Снегопад", EN: "Snow showers", Icon: "🌨️"},
	86: {KK: "Қатты қар жауады", RU: "Сильный снегопад", EN: "Heavy snow showers", Icon: "❄️"},
	95: {KK: "Найзағай", RU: "Гроза", EN: "Thunderstorm", Icon: "⛈️"},
	96: {KK: "Бұршақты найзағай", RU: "Гроза с градом", EN: "Thunderstorm with hail", Icon: "⛈️"},
	99: {KK: "Қатты бұршақты найзағай", RU: "Сильная гроза с градом", EN: "Severe thunderstorm with hail", Icon: "⛈️"},
}

// RecommendForTemperature produces a short trilingual advice line based on
// temperature band and precipitation.
func RecommendForTemperature(temperature float64, weatherCode int) domain.LocalizedText {
	raining := weatherCode >= 51 && weatherCode <= 82
	snowing := weatherCode >= 71 && weatherCode <= 77 || weatherCode == 85 || weatherCode == 86
	stormy := weatherCode >= 95

	switch {
	case stormy:
		return domain.LocalizedText{
			KK: "Найзағай! Үйде қалғаныңыз жөн.",
			RU: "Гроза! Лучше остаться дома.",
			EN: "Thunderstorm! Better to stay indoors.",
		}
	case snowing:
		return domain.LocalizedText{
			KK: "Қар жауып тұр, жылы киініңіз.",
			RU: "Идёт снег, одевайтесь теплее.",
			EN: "It is snowing, dress warmly.",
		}
	case raining:
		return domain.LocalizedText{
			KK: "Қолшатыр алыңыз.",
			RU: "Возьмите зонт.",
			EN: "Take an umbrella.",
		}
	case temperature <= -10:
		return domain.LocalizedText{
			KK: "Өте суық! Серуендеуді қысқартыңыз.",
			RU: "Очень холодно! Сократите прогулку.",
			EN: "Very cold! Keep your walk short.",
		}
	case temperature < 5:
		return domain.LocalizedText{
			KK: "Суық, жылы киім киіңіз.",
			RU: "Холодно, одевайтесь тепло.",
			EN: "Cold, wear warm clothes.",
		}
	case temperature < 18:
		return domain.LocalizedText{
			KK: "Салқын, жеңіл куртка жеткілікті.",
			RU: "Прохладно, хватит лёгкой куртки.",
			EN: "Cool, a light jacket is enough.",
		}
	case temperature < 28:
		return domain.LocalizedText{
			KK: "Серуендеуге тамаша ауа райы!",
			RU: "Отличная погода для прогулок!",
			EN: "Great weather for a walk!",
		}
	default:
		return domain.LocalizedText{
			KK: "Ыстық! Су ішуді ұмытпаңыз.",
			RU: "Жарко! Не забывайте пить воду.",
			EN: "Hot! Remember to drink water.",
		}
	}
}
