package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baltabekpro/tr-velMap/internal/transport/http/middleware"
	"github.com/baltabekpro/tr-velMap/internal/usecase"
)

// UserPlacesHandler exposes the authenticated catalog interactions: reviews,
// likes, favorites, ratings and visit history.
type UserPlacesHandler struct {
	interactions *usecase.UserPlacesService
	auth         *usecase.AuthService
}

// NewUserPlacesHandler constructs UserPlacesHandler.
func NewUserPlacesHandler(interactions *usecase.UserPlacesService, auth *usecase.AuthService) *UserPlacesHandler {
	return &UserPlacesHandler{interactions: interactions, auth: auth}
}

// RegisterRoutes binds the interaction routes. Review listing is public; all
// mutations require authentication.
func (h *UserPlacesHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/places/:id/reviews", h.listReviews)

	authed := r.Group("", middleware.RequireAuth(h.auth))
	authed.POST("/places/:id/reviews", h.addReview)
	authed.POST("/places/:id/rating", h.ratePlace)
	authed.POST("/places/:id/visit", h.recordVisit)
	authed.POST("/places/:id/favorite", h.addFavorite)
	authed.DELETE("/places/:id/favorite", h.removeFavorite)
	authed.POST("/reviews/:id/like", h.likeReview)
	authed.DELETE("/reviews/:id/like", h.unlikeReview)
	authed.GET("/favorites", h.listFavorites)
	authed.GET("/visits", h.listVisits)
}

var interactionCases = []ErrorCase{
	{Err: usecase.ErrPlaceNotFound, Status: http.StatusNotFound, Message: "place not found"},
	{Err: usecase.ErrReviewNotFound, Status: http.StatusNotFound, Message: "review not found"},
	{Err: usecase.ErrAlreadyExists, Status: http.StatusConflict, Message: "already exists"},
}

func (h *UserPlacesHandler) listReviews(c *gin.Context) {
	placeID, ok := pathID(c)
	if !ok {
		return
	}

	reviews, err := h.interactions.ListReviews(c.Request.Context(), placeID, queryInt(c, "limit", 20))
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "review listing failed"))
		return
	}

	summaries := make([]ReviewSummary, 0, len(reviews))
	for _, review := range reviews {
		summaries = append(summaries, NewReviewSummary(review))
	}

	c.JSON(http.StatusOK, gin.H{"reviews": summaries})
}

func (h *UserPlacesHandler) addReview(c *gin.Context) {
	placeID, ok := pathID(c)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid review payload"))
		return
	}

	identity, _ := middleware.GetIdentity(c)
	review, err := h.interactions.AddReview(c.Request.Context(), identity.UserID, placeID, req.Rating, req.Comment)
	if err != nil {
		if respondIfValidation(c, err) {
			return
		}
		RespondWithMappedError(c, err, interactionCases, http.StatusInternalServerError, "review creation failed")
		return
	}

	c.JSON(http.StatusCreated, NewReviewSummary(*review))
}

func (h *UserPlacesHandler) ratePlace(c *gin.Context) {
	placeID, ok := pathID(c)
	if !ok {
		return
	}

	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid rating payload"))
		return
	}

	identity, _ := middleware.GetIdentity(c)
	avg, err := h.interactions.RatePlace(c.Request.Context(), identity.UserID, placeID, req.Rating)
	if err != nil {
		if respondIfValidation(c, err) {
			return
		}
		RespondWithMappedError(c, err, interactionCases, http.StatusInternalServerError, "rating failed")
		return
	}

	c.JSON(http.StatusOK, RatingResponse{AverageRating: avg})
}

func (h *UserPlacesHandler) recordVisit(c *gin.Context) {
	placeID, ok := pathID(c)
	if !ok {
		return
	}

	identity, _ := middleware.GetIdentity(c)
	visit, err := h.interactions.RecordVisit(c.Request.Context(), identity.UserID, placeID)
	if err != nil {
		RespondWithMappedError(c, err, interactionCases, http.StatusInternalServerError, "visit recording failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"place_id":   visit.PlaceID,
		"visited_at": visit.VisitedAt,
	})
}

func (h *UserPlacesHandler) addFavorite(c *gin.Context) {
	placeID, ok := pathID(c)
	if !ok {
		return
	}

	identity, _ := middleware.GetIdentity(c)
	if err := h.interactions.AddFavorite(c.Request.Context(), identity.UserID, placeID); err != nil {
		RespondWithMappedError(c, err, interactionCases, http.StatusInternalServerError, "favorite failed")
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{Message: "added to favorites"})
}

func (h *UserPlacesHandler) removeFavorite(c *gin.Context) {
	placeID, ok := pathID(c)
	if !ok {
		return
	}

	identity, _ := middleware.GetIdentity(c)
	if err := h.interactions.RemoveFavorite(c.Request.Context(), identity.UserID, placeID); err != nil {
		RespondWithMappedError(c, err, interactionCases, http.StatusInternalServerError, "favorite removal failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "removed from favorites"})
}

func (h *UserPlacesHandler) likeReview(c *gin.Context) {
	reviewID, ok := pathID(c)
	if !ok {
		return
	}

	identity, _ := middleware.GetIdentity(c)
	if err := h.interactions.LikeReview(c.Request.Context(), identity.UserID, reviewID); err != nil {
		RespondWithMappedError(c, err, interactionCases, http.StatusInternalServerError, "like failed")
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{Message: "review liked"})
}

func (h *UserPlacesHandler) unlikeReview(c *gin.Context) {
	reviewID, ok := pathID(c)
	if !ok {
		return
	}

	identity, _ := middleware.GetIdentity(c)
	if err := h.interactions.UnlikeReview(c.Request.Context(), identity.UserID, reviewID); err != nil {
		RespondWithMappedError(c, err, interactionCases, http.StatusInternalServerError, "unlike failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "like removed"})
}

func (h *UserPlacesHandler) listFavorites(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	favorites, err := h.interactions.ListFavorites(c.Request.Context(), identity.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "favorite listing failed"))
		return
	}

	entries := make([]FavoriteEntry, 0, len(favorites))
	for _, item := range favorites {
		entries = append(entries, NewFavoriteEntry(item))
	}

	c.JSON(http.StatusOK, gin.H{"favorites": entries})
}

func (h *UserPlacesHandler) listVisits(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	visits, err := h.interactions.ListVisits(c.Request.Context(), identity.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "visit listing failed"))
		return
	}

	entries := make([]VisitEntry, 0, len(visits))
	for _, item := range visits {
		entries = append(entries, NewVisitEntry(item))
	}

	c.JSON(http.StatusOK, gin.H{"visits": entries})
}
