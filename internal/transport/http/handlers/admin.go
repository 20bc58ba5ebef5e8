package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
	"github.com/baltabekpro/tr-velMap/internal/transport/http/middleware"
	"github.com/baltabekpro/tr-velMap/internal/usecase"
)

// AdminHandler exposes the back-office user management endpoints. All routes
// require the admin role.
type AdminHandler struct {
	admin  *usecase.AdminService
	places *usecase.PlaceService
	auth   *usecase.AuthService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(admin *usecase.AdminService, places *usecase.PlaceService, auth *usecase.AuthService) *AdminHandler {
	return &AdminHandler{admin: admin, places: places, auth: auth}
}

// RegisterRoutes binds the admin routes behind authentication and the admin
// role check.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.Use(middleware.RequireAuth(h.auth), middleware.RequireRole(domain.RoleAdmin))

	r.GET("/users", h.listUsers)
	r.PUT("/users/:id/role", h.changeRole)
	r.PUT("/users/:id/status", h.changeStatus)
	r.DELETE("/users/:id", h.deleteUser)
	r.GET("/stats", h.stats)
	r.GET("/logs", h.listLogs)

	r.GET("/places", h.listPlaces)
	r.POST("/places", h.createPlace)
	r.PUT("/places/:id", h.updatePlace)
	r.DELETE("/places/:id", h.deactivatePlace)

	r.DELETE("/reviews/:id", h.deleteReview)
}

var adminUserCases = []ErrorCase{
	{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
	{Err: usecase.ErrSelfDelete, Status: http.StatusBadRequest, Message: "cannot delete own account"},
}

func (h *AdminHandler) listUsers(c *gin.Context) {
	filter := port.UserListFilter{
		Search: c.Query("search"),
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Limit:  queryInt(c, "limit", 50),
		Offset: queryInt(c, "offset", 0),
	}

	users, total, err := h.admin.ListUsers(c.Request.Context(), filter)
	if err != nil {
		if respondIfValidation(c, err) {
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "user listing failed"))
		return
	}

	summaries := make([]UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, NewUserSummary(&users[i]))
	}

	c.JSON(http.StatusOK, UserListResponse{Users: summaries, Total: total})
}

func (h *AdminHandler) changeRole(c *gin.Context) {
	targetID, ok := pathID(c)
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role payload"))
		return
	}

	identity, _ := middleware.GetIdentity(c)
	err := h.admin.ChangeRole(c.Request.Context(), identity.UserID, targetID, req.Role)
	if err != nil {
		if respondIfValidation(c, err) {
			return
		}
		RespondWithMappedError(c, err, adminUserCases, http.StatusInternalServerError, "role change failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "role updated"})
}

func (h *AdminHandler) changeStatus(c *gin.Context) {
	targetID, ok := pathID(c)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid status payload"))
		return
	}

	identity, _ := middleware.GetIdentity(c)
	err := h.admin.ChangeStatus(c.Request.Context(), identity.UserID, targetID, req.Status)
	if err != nil {
		if respondIfValidation(c, err) {
			return
		}
		RespondWithMappedError(c, err, adminUserCases, http.StatusInternalServerError, "status change failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "status updated"})
}

func (h *AdminHandler) deleteUser(c *gin.Context) {
	targetID, ok := pathID(c)
	if !ok {
		return
	}

	identity, _ := middleware.GetIdentity(c)
	if err := h.admin.DeleteUser(c.Request.Context(), identity.UserID, targetID); err != nil {
		RespondWithMappedError(c, err, adminUserCases, http.StatusInternalServerError, "user deletion failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "user deleted"})
}

func (h *AdminHandler) stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "stats collection failed"))
		return
	}

	c.JSON(http.StatusOK, AdminStatsResponse{
		TotalUsers:   stats.TotalUsers,
		ActiveUsers:  stats.ActiveUsers,
		BannedUsers:  stats.BannedUsers,
		TotalPlaces:  stats.TotalPlaces,
		TotalReviews: stats.TotalReviews,
		NewUsersWeek: stats.NewUsersWeek,
	})
}

func (h *AdminHandler) listLogs(c *gin.Context) {
	logs, total, err := h.admin.ListLogs(c.Request.Context(), queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "log listing failed"))
		return
	}

	summaries := make([]AdminLogSummary, 0, len(logs))
	for _, entry := range logs {
		summaries = append(summaries, AdminLogSummary{
			ID:            entry.ID,
			AdminID:       entry.AdminID,
			AdminUsername: entry.AdminUsername,
			Action:        entry.Action,
			TargetType:    entry.TargetType,
			TargetID:      entry.TargetID,
			Description:   entry.Description,
			CreatedAt:     entry.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, AdminLogListResponse{Logs: summaries, Total: total})
}

// listPlaces returns the full catalog including deactivated entries.
func (h *AdminHandler) listPlaces(c *gin.Context) {
	places, err := h.places.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "place listing failed"))
		return
	}

	summaries := make([]PlaceSummary, 0, len(places))
	for _, place := range places {
		summaries = append(summaries, NewPlaceSummary(place))
	}

	c.JSON(http.StatusOK, PlaceListResponse{Places: summaries, Total: len(summaries)})
}

func (h *AdminHandler) deleteReview(c *gin.Context) {
	reviewID, ok := pathID(c)
	if !ok {
		return
	}

	identity, _ := middleware.GetIdentity(c)
	if err := h.places.DeleteReview(c.Request.Context(), identity.UserID, reviewID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrReviewNotFound, Status: http.StatusNotFound, Message: "review not found"},
		}, http.StatusInternalServerError, "review deletion failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "review deleted"})
}

func (h *AdminHandler) createPlace(c *gin.Context) {
	var req PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid place payload"))
		return
	}

	identity, _ := middleware.GetIdentity(c)
	place, err := h.places.Create(c.Request.Context(), identity.UserID, req.Draft())
	if err != nil {
		if respondIfValidation(c, err) {
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "place creation failed"))
		return
	}

	c.JSON(http.StatusCreated, NewPlaceSummary(*place))
}

func (h *AdminHandler) updatePlace(c *gin.Context) {
	placeID, ok := pathID(c)
	if !ok {
		return
	}

	var req PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid place payload"))
		return
	}

	identity, _ := middleware.GetIdentity(c)
	place, err := h.places.Update(c.Request.Context(), identity.UserID, placeID, req.Draft())
	if err != nil {
		if respondIfValidation(c, err) {
			return
		}
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPlaceNotFound, Status: http.StatusNotFound, Message: "place not found"},
		}, http.StatusInternalServerError, "place update failed")
		return
	}

	c.JSON(http.StatusOK, NewPlaceSummary(*place))
}

func (h *AdminHandler) deactivatePlace(c *gin.Context) {
	placeID, ok := pathID(c)
	if !ok {
		return
	}

	identity, _ := middleware.GetIdentity(c)
	if err := h.places.Deactivate(c.Request.Context(), identity.UserID, placeID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPlaceNotFound, Status: http.StatusNotFound, Message: "place not found"},
		}, http.StatusInternalServerError, "place deactivation failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "place deactivated"})
}

// pathID parses the :id path parameter, responding 400 on garbage.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid id"))
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// respondIfValidation reports field-level validation failures as 400.
func respondIfValidation(c *gin.Context, err error) bool {
	if errors.Is(err, usecase.ErrValidation) {
		respondValidationError(c, err)
		return true
	}
	return false
}
