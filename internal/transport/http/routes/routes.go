package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/baltabekpro/tr-velMap/internal/infra/config"
	"github.com/baltabekpro/tr-velMap/internal/transport/http/handlers"
	"github.com/baltabekpro/tr-velMap/internal/transport/http/middleware"
	"github.com/baltabekpro/tr-velMap/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth         *usecase.AuthService
	Registration *usecase.RegistrationService
	Admin        *usecase.AdminService
	Places       *usecase.PlaceService
	Interactions *usecase.UserPlacesService
	Weather      *usecase.WeatherService
	Maps         *usecase.MapService
	Chat         *usecase.ChatService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	checks := make(map[string]handlers.ReadinessCheck, 2)
	if deps.Database != nil {
		checks["database"] = deps.Database.Ping
	}
	if deps.Cache != nil {
		checks["redis"] = deps.Cache.HealthCheck
	}

	healthHandler := handlers.NewHealthHandler(checks)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Services.Registration)
		authHandler.RegisterRoutes(authGroup, buildAuthLimits(deps))

		placesHandler := handlers.NewPlacesHandler(deps.Services.Places)
		placesHandler.RegisterRoutes(api.Group("/places"))

		interactionsHandler := handlers.NewUserPlacesHandler(deps.Services.Interactions, deps.Services.Auth)
		interactionsHandler.RegisterRoutes(api.Group("/user"))

		weatherHandler := handlers.NewWeatherHandler(deps.Services.Weather)
		weatherHandler.RegisterRoutes(api.Group("/weather"))

		mapHandler := handlers.NewMapHandler(deps.Services.Maps)
		mapHandler.RegisterRoutes(api.Group("/map"))

		chatHandler := handlers.NewChatHandler(deps.Services.Chat)
		chatHandler.RegisterRoutes(api.Group("/chat"))

		adminHandler := handlers.NewAdminHandler(deps.Services.Admin, deps.Services.Places, deps.Services.Auth)
		adminHandler.RegisterRoutes(api.Group("/admin"))
	}

	return r
}

func buildAuthLimits(deps Dependencies) handlers.AuthRouteLimits {
	if deps.RateLimiter == nil || deps.Config == nil {
		return handlers.AuthRouteLimits{}
	}

	return handlers.AuthRouteLimits{
		Login:    rateLimitChain(deps, "auth_login_ip", deps.Config.RateLimit.LoginMaxAttempts),
		Register: rateLimitChain(deps, "auth_register_ip", deps.Config.RateLimit.RegisterMaxAttempts),
	}
}

func rateLimitChain(deps Dependencies, name string, limit int) []gin.HandlerFunc {
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
