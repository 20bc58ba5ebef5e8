package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/baltabekpro/tr-velMap/internal/usecase"
)

// WeatherHandler exposes the weather endpoints.
type WeatherHandler struct {
	weather *usecase.WeatherService
}

// NewWeatherHandler constructs WeatherHandler.
func NewWeatherHandler(weather *usecase.WeatherService) *WeatherHandler {
	return &WeatherHandler{weather: weather}
}

// RegisterRoutes binds the weather routes.
func (h *WeatherHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/current", h.current)
	r.GET("/forecast", h.forecast)
	r.GET("/location", h.byLocation)
}

func (h *WeatherHandler) current(c *gin.Context) {
	report, err := h.weather.Current(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, NewErrorResponse(c, "weather lookup failed"))
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *WeatherHandler) forecast(c *gin.Context) {
	forecast, err := h.weather.Forecast(c.Request.Context(), queryInt(c, "days", 7))
	if err != nil {
		c.JSON(http.StatusBadGateway, NewErrorResponse(c, "forecast lookup failed"))
		return
	}

	c.JSON(http.StatusOK, forecast)
}

func (h *WeatherHandler) byLocation(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "lat is required"))
		return
	}

	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "lon is required"))
		return
	}

	report, err := h.weather.CurrentAt(c.Request.Context(), lat, lon)
	if err != nil {
		if respondIfValidation(c, err) {
			return
		}
		c.JSON(http.StatusBadGateway, NewErrorResponse(c, "weather lookup failed"))
		return
	}

	c.JSON(http.StatusOK, report)
}
