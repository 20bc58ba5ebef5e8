package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/baltabekpro/tr-velMap/internal/core/port"
	"github.com/baltabekpro/tr-velMap/internal/transport/http/middleware"
	"github.com/baltabekpro/tr-velMap/internal/usecase"
)

// AuthHandler exposes registration, login and the profile endpoints of the
// authenticated user.
type AuthHandler struct {
	auth         *usecase.AuthService
	registration *usecase.RegistrationService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, registration *usecase.RegistrationService) *AuthHandler {
	return &AuthHandler{auth: auth, registration: registration}
}

// AuthRouteLimits carries the throttling middleware applied ahead of the
// credential-accepting endpoints.
type AuthRouteLimits struct {
	Login    []gin.HandlerFunc
	Register []gin.HandlerFunc
}

// RegisterRoutes binds the auth routes. Logout runs behind OptionalAuth so a
// missing or already revoked credential still answers 200.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, limits AuthRouteLimits) {
	registerChain := append([]gin.HandlerFunc{}, limits.Register...)
	registerChain = append(registerChain, h.register)
	r.POST("/register", registerChain...)

	loginChain := append([]gin.HandlerFunc{}, limits.Login...)
	loginChain = append(loginChain, h.login)
	r.POST("/login", loginChain...)

	r.POST("/logout", middleware.OptionalAuth(h.auth), h.logout)
	r.POST("/verify", middleware.RequireAuth(h.auth), h.verify)
	r.GET("/verify", middleware.RequireAuth(h.auth), h.verify)
	r.GET("/me", middleware.RequireAuth(h.auth), h.me)
	r.PUT("/profile", middleware.RequireAuth(h.auth), h.updateProfile)
	r.PUT("/password", middleware.RequireAuth(h.auth), h.changePassword)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	input := usecase.RegisterInput{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		FullName: strings.TrimSpace(req.FullName),
	}

	user, tokens, err := h.registration.Register(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, usecase.ErrValidation) {
			respondValidationError(c, err)
			return
		}
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrDuplicateUser, Status: http.StatusConflict, Message: "username or email already exists"},
		}, http.StatusInternalServerError, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Token:        tokens.AccessToken,
		SessionToken: tokens.SessionToken,
		ExpiresAt:    tokens.ExpiresAt,
		User:         NewUserSummary(user),
	})
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Username)
	}

	user, tokens, err := h.auth.Login(c.Request.Context(), identifier, req.Password, c.ClientIP())
	if err != nil {
		if errors.Is(err, usecase.ErrValidation) {
			respondValidationError(c, err)
			return
		}
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid credentials"},
			{Err: usecase.ErrUserBanned, Status: http.StatusForbidden, Message: "account is banned"},
			{Err: usecase.ErrRateLimited, Status: http.StatusTooManyRequests, Message: "too many login attempts"},
		}, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:        tokens.AccessToken,
		SessionToken: tokens.SessionToken,
		ExpiresAt:    tokens.ExpiresAt,
		User:         NewUserSummary(user),
	})
}

func (h *AuthHandler) logout(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	var userID int64
	if identity != nil {
		userID = identity.UserID
	}

	// The bearer credential doubles as the session token; revoking a signed
	// token is a no-op and logout still succeeds.
	token := bearerCredential(c)
	if err := h.auth.Logout(c.Request.Context(), token, userID); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "logout failed"))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// verify confirms the presented credential resolves to an active account.
// Resolution happens in RequireAuth; reaching the handler means it passed.
func (h *AuthHandler) verify(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	c.JSON(http.StatusOK, VerifyResponse{
		Valid:    true,
		Method:   identity.Method,
		UserID:   identity.UserID,
		Username: identity.Username,
		Role:     string(identity.Role),
	})
}

func (h *AuthHandler) me(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	user, stats, err := h.auth.Me(c.Request.Context(), identity.UserID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUnauthenticated, Status: http.StatusUnauthorized, Message: "authentication required"},
		}, http.StatusInternalServerError, "profile lookup failed")
		return
	}

	resp := MeResponse{User: NewUserSummary(user)}
	if stats != nil {
		resp.Stats = &UserStatsSummary{
			TotalVisits:    stats.TotalVisits,
			TotalReviews:   stats.TotalReviews,
			TotalFavorites: stats.TotalFavorites,
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) updateProfile(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	update := port.UserProfileUpdate{
		Email:     req.Email,
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), identity.UserID, update)
	if err != nil {
		if errors.Is(err, usecase.ErrValidation) {
			respondValidationError(c, err)
			return
		}
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUnauthenticated, Status: http.StatusUnauthorized, Message: "authentication required"},
		}, http.StatusInternalServerError, "profile update failed")
		return
	}

	c.JSON(http.StatusOK, NewUserSummary(user))
}

func (h *AuthHandler) changePassword(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid password payload"))
		return
	}

	err := h.auth.ChangePassword(c.Request.Context(), identity.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, usecase.ErrValidation) {
			respondValidationError(c, err)
			return
		}
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "current password is incorrect"},
			{Err: usecase.ErrUnauthenticated, Status: http.StatusUnauthorized, Message: "authentication required"},
		}, http.StatusInternalServerError, "password change failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password changed"})
}

// bearerCredential extracts the raw bearer value for logout.
func bearerCredential(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
