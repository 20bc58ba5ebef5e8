package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserSummary describes the public view of a user returned by the API.
type UserSummary struct {
	ID          int64             `json:"id"`
	Username    string            `json:"username"`
	Email       string            `json:"email"`
	FullName    *string           `json:"full_name,omitempty"`
	AvatarURL   *string           `json:"avatar_url,omitempty"`
	Bio         *string           `json:"bio,omitempty"`
	Role        domain.UserRole   `json:"role"`
	Status      domain.UserStatus `json:"status"`
	LastLoginAt *time.Time        `json:"last_login_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewUserSummary maps a domain user to its API representation.
func NewUserSummary(user *domain.User) UserSummary {
	return UserSummary{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FullName:    user.FullName,
		AvatarURL:   user.AvatarURL,
		Bio:         user.Bio,
		Role:        user.Role,
		Status:      user.Status,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// UserStatsSummary carries the per-user activity counters.
type UserStatsSummary struct {
	TotalVisits    int `json:"total_visits"`
	TotalReviews   int `json:"total_reviews"`
	TotalFavorites int `json:"total_favorites"`
}

// RegisterRequest defines the account registration payload.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

// LoginRequest defines the payload for the login endpoint. Identifier accepts
// either username or email.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Password   string `json:"password" binding:"required"`
}

// AuthResponse is returned by register and login with both credentials.
type AuthResponse struct {
	Token        string      `json:"token"`
	SessionToken string      `json:"session_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	User         UserSummary `json:"user"`
}

// VerifyResponse confirms a credential resolved to an active account.
type VerifyResponse struct {
	Valid    bool   `json:"valid"`
	Method   string `json:"method"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// MeResponse is the caller's profile with counters attached.
type MeResponse struct {
	User  UserSummary       `json:"user"`
	Stats *UserStatsSummary `json:"stats,omitempty"`
}

// UpdateProfileRequest carries optional profile fields; absent fields keep
// their stored values.
type UpdateProfileRequest struct {
	Email     *string `json:"email"`
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
	Bio       *string `json:"bio"`
}

// ChangePasswordRequest defines the password change payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// PlaceSummary is the API representation of a catalog entry.
type PlaceSummary struct {
	ID            int64              `json:"id"`
	Name          domain.LocalizedText `json:"name"`
	Description   *domain.LocalizedText `json:"description,omitempty"`
	Category      string             `json:"category"`
	Latitude      float64            `json:"latitude"`
	Longitude     float64            `json:"longitude"`
	Address       *string            `json:"address,omitempty"`
	ImageURL      *string            `json:"image_url,omitempty"`
	Rating        float64            `json:"rating"`
	VisitCount    int                `json:"visit_count"`
	ReviewCount   int                `json:"review_count"`
	Status        domain.PlaceStatus `json:"status"`
}

// NewPlaceSummary maps a domain place to its API representation.
func NewPlaceSummary(place domain.Place) PlaceSummary {
	summary := PlaceSummary{
		ID: place.ID,
		Name: domain.LocalizedText{
			KK: place.NameKK,
			RU: place.NameRU,
			EN: place.NameEN,
		},
		Category:    place.Category,
		Latitude:    place.Latitude,
		Longitude:   place.Longitude,
		Address:     place.Address,
		ImageURL:    place.ImageURL,
		Rating:      place.Rating,
		VisitCount:  place.VisitCount,
		ReviewCount: place.ReviewCount,
		Status:      place.Status,
	}

	if place.DescriptionKK != nil || place.DescriptionRU != nil || place.DescriptionEN != nil {
		summary.Description = &domain.LocalizedText{}
		if place.DescriptionKK != nil {
			summary.Description.KK = *place.DescriptionKK
		}
		if place.DescriptionRU != nil {
			summary.Description.RU = *place.DescriptionRU
		}
		if place.DescriptionEN != nil {
			summary.Description.EN = *place.DescriptionEN
		}
	}

	return summary
}

// PlaceRequest carries the writable place fields for create and update.
type PlaceRequest struct {
	NameKK        *string  `json:"name_kk"`
	NameRU        *string  `json:"name_ru"`
	NameEN        *string  `json:"name_en"`
	DescriptionKK *string  `json:"description_kk"`
	DescriptionRU *string  `json:"description_ru"`
	DescriptionEN *string  `json:"description_en"`
	Category      *string  `json:"category"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Address       *string  `json:"address"`
	ImageURL      *string  `json:"image_url"`
}

// Draft converts the request payload to a domain draft.
func (r PlaceRequest) Draft() domain.PlaceDraft {
	return domain.PlaceDraft{
		NameKK:        r.NameKK,
		NameRU:        r.NameRU,
		NameEN:        r.NameEN,
		DescriptionKK: r.DescriptionKK,
		DescriptionRU: r.DescriptionRU,
		DescriptionEN: r.DescriptionEN,
		Category:      r.Category,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		Address:       r.Address,
		ImageURL:      r.ImageURL,
	}
}

// ReviewRequest defines the review submission payload.
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// ReviewSummary is the API representation of a review.
type ReviewSummary struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	PlaceID         int64     `json:"place_id"`
	Rating          int       `json:"rating"`
	Comment         *string   `json:"comment,omitempty"`
	LikesCount      int       `json:"likes_count"`
	AuthorUsername  string    `json:"author_username,omitempty"`
	AuthorAvatarURL *string   `json:"author_avatar_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewReviewSummary maps a domain review to its API representation.
func NewReviewSummary(review domain.Review) ReviewSummary {
	return ReviewSummary{
		ID:              review.ID,
		UserID:          review.UserID,
		PlaceID:         review.PlaceID,
		Rating:          review.Rating,
		Comment:         review.Comment,
		LikesCount:      review.LikesCount,
		AuthorUsername:  review.AuthorUsername,
		AuthorAvatarURL: review.AuthorAvatarURL,
		CreatedAt:       review.CreatedAt,
	}
}

// RatingRequest defines the standalone rating payload.
type RatingRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// RatingResponse returns the new average after a rating upsert.
type RatingResponse struct {
	AverageRating float64 `json:"average_rating"`
}

// FavoriteEntry pairs a favorite with its place.
type FavoriteEntry struct {
	PlaceID   int64        `json:"place_id"`
	CreatedAt time.Time    `json:"created_at"`
	Place     PlaceSummary `json:"place"`
}

// NewFavoriteEntry maps a joined favorite row.
func NewFavoriteEntry(item port.FavoriteWithPlace) FavoriteEntry {
	return FavoriteEntry{
		PlaceID:   item.Favorite.PlaceID,
		CreatedAt: item.Favorite.CreatedAt,
		Place:     NewPlaceSummary(item.Place),
	}
}

// VisitEntry pairs a visit with its place.
type VisitEntry struct {
	PlaceID   int64        `json:"place_id"`
	VisitedAt time.Time    `json:"visited_at"`
	Place     PlaceSummary `json:"place"`
}

// NewVisitEntry maps a joined visit row.
func NewVisitEntry(item port.VisitWithPlace) VisitEntry {
	return VisitEntry{
		PlaceID:   item.Visit.PlaceID,
		VisitedAt: item.Visit.VisitedAt,
		Place:     NewPlaceSummary(item.Place),
	}
}

// ChangeRoleRequest defines the admin role change payload.
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ChangeStatusRequest defines the admin status change payload.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UserListResponse wraps the admin user listing with its total.
type UserListResponse struct {
	Users []UserSummary `json:"users"`
	Total int           `json:"total"`
}

// PlaceListResponse wraps the admin place listing with its total.
type PlaceListResponse struct {
	Places []PlaceSummary `json:"places"`
	Total  int            `json:"total"`
}

// AdminLogSummary is the API representation of an audit record.
type AdminLogSummary struct {
	ID            int64     `json:"id"`
	AdminID       *int64    `json:"admin_id,omitempty"`
	AdminUsername *string   `json:"admin_username,omitempty"`
	Action        string    `json:"action"`
	TargetType    string    `json:"target_type"`
	TargetID      *int64    `json:"target_id,omitempty"`
	Description   *string   `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AdminLogListResponse wraps the audit listing with its total.
type AdminLogListResponse struct {
	Logs  []AdminLogSummary `json:"logs"`
	Total int               `json:"total"`
}

// AdminStatsResponse carries the dashboard aggregates.
type AdminStatsResponse struct {
	TotalUsers   int `json:"total_users"`
	ActiveUsers  int `json:"active_users"`
	BannedUsers  int `json:"banned_users"`
	TotalPlaces  int `json:"total_places"`
	TotalReviews int `json:"total_reviews"`
	NewUsersWeek int `json:"new_users_week"`
}

// RouteRequest defines the route estimate payload.
type RouteRequest struct {
	From domain.LatLng `json:"from" binding:"required"`
	To   domain.LatLng `json:"to" binding:"required"`
}

// MarkersResponse carries map markers with the bounding box over them.
type MarkersResponse struct {
	Markers []domain.Marker `json:"markers"`
	Bounds  *domain.Bounds  `json:"bounds,omitempty"`
}

// ChatRequest defines the assistant message payload.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse is the assistant's reply with optional suggestions.
type ChatResponse struct {
	Reply  domain.LocalizedText `json:"reply"`
	Places []PlaceSummary       `json:"places,omitempty"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports dependency health per named check.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
