package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baltabekpro/tr-velMap/internal/core/port"
	"github.com/baltabekpro/tr-velMap/internal/usecase"
)

// PlacesHandler exposes the public place catalog.
type PlacesHandler struct {
	places *usecase.PlaceService
}

// NewPlacesHandler constructs PlacesHandler.
func NewPlacesHandler(places *usecase.PlaceService) *PlacesHandler {
	return &PlacesHandler{places: places}
}

// RegisterRoutes binds the public catalog routes.
func (h *PlacesHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.GET("/:id", h.get)
}

func (h *PlacesHandler) list(c *gin.Context) {
	filter := port.PlaceListFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Limit:    queryInt(c, "limit", 50),
	}

	places, err := h.places.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "place listing failed"))
		return
	}

	summaries := make([]PlaceSummary, 0, len(places))
	for _, place := range places {
		summaries = append(summaries, NewPlaceSummary(place))
	}

	c.JSON(http.StatusOK, gin.H{"places": summaries})
}

func (h *PlacesHandler) get(c *gin.Context) {
	placeID, ok := pathID(c)
	if !ok {
		return
	}

	place, reviews, err := h.places.Get(c.Request.Context(), placeID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPlaceNotFound, Status: http.StatusNotFound, Message: "place not found"},
		}, http.StatusInternalServerError, "place lookup failed")
		return
	}

	reviewSummaries := make([]ReviewSummary, 0, len(reviews))
	for _, review := range reviews {
		reviewSummaries = append(reviewSummaries, NewReviewSummary(review))
	}

	c.JSON(http.StatusOK, gin.H{
		"place":   NewPlaceSummary(*place),
		"reviews": reviewSummaries,
	})
}
