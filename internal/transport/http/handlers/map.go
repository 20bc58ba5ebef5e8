package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baltabekpro/tr-velMap/internal/usecase"
)

// MapHandler exposes map markers and route estimates.
type MapHandler struct {
	maps *usecase.MapService
}

// NewMapHandler constructs MapHandler.
func NewMapHandler(maps *usecase.MapService) *MapHandler {
	return &MapHandler{maps: maps}
}

// RegisterRoutes binds the map routes.
func (h *MapHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/markers", h.markers)
	r.POST("/route", h.route)
}

func (h *MapHandler) markers(c *gin.Context) {
	markers, bounds, err := h.maps.Markers(c.Request.Context(), c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "marker listing failed"))
		return
	}

	c.JSON(http.StatusOK, MarkersResponse{Markers: markers, Bounds: bounds})
}

func (h *MapHandler) route(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid route payload"))
		return
	}

	route, err := h.maps.Route(c.Request.Context(), req.From, req.To)
	if err != nil {
		if respondIfValidation(c, err) {
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "route estimation failed"))
		return
	}

	c.JSON(http.StatusOK, route)
}
