package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/baltabekpro/tr-velMap/internal/core/port"
	"github.com/baltabekpro/tr-velMap/internal/infra/config"
	"github.com/baltabekpro/tr-velMap/internal/infra/database"
	kafkainfra "github.com/baltabekpro/tr-velMap/internal/infra/kafka"
	"github.com/baltabekpro/tr-velMap/internal/infra/logger"
	redisinfra "github.com/baltabekpro/tr-velMap/internal/infra/redis"
	"github.com/baltabekpro/tr-velMap/internal/infra/security"
	"github.com/baltabekpro/tr-velMap/internal/infra/telemetry"
	weatherinfra "github.com/baltabekpro/tr-velMap/internal/infra/weather"
	postgresrepo "github.com/baltabekpro/tr-velMap/internal/repository/postgres"
	redisrepo "github.com/baltabekpro/tr-velMap/internal/repository/redis"
	"github.com/baltabekpro/tr-velMap/internal/transport/http/middleware"
	"github.com/baltabekpro/tr-velMap/internal/transport/http/routes"
	"github.com/baltabekpro/tr-velMap/internal/usecase"
)

// Application owns the process-wide resources of the TravelMap API and the
// configured HTTP engine.
type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
	tracer *telemetry.TracerProvider
}

// New wires configuration, infrastructure, repositories and services into a
// runnable application. Migrations are applied before the pool is opened.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var tracer *telemetry.TracerProvider
	if cfg.Telemetry.Enabled {
		tracer, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
		if err != nil {
			return nil, fmt.Errorf("init telemetry: %w", err)
		}
	}

	if err := database.Migrate(database.DSN(cfg.Postgres), log); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	cleanup := func() {
		pool.Close()
		_ = redisClient.Close()
	}

	hasher, err := security.NewArgon2Hasher(security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	})
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("init password hasher: %w", err)
	}

	passwords := security.NewPasswordValidator(
		security.MinLengthRule(cfg.Auth.MinPasswordLength),
		security.RequirePasswordStrengthRule(cfg.Auth.MinPasswordScore),
	)

	tokens, err := security.NewTokenManager(cfg.Auth.TokenSecret, cfg.App.Name, cfg.Auth.TokenTTL)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("init token manager: %w", err)
	}

	var events port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			events = kafkainfra.NewStubPublisher(log)
		} else {
			events = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		events = kafkainfra.NewStubPublisher(log)
	}

	users := postgresrepo.NewUserRepository(pool)
	sessions := postgresrepo.NewSessionRepository(pool)
	places := postgresrepo.NewPlaceRepository(pool)
	reviews := postgresrepo.NewReviewRepository(pool)
	favorites := postgresrepo.NewFavoriteRepository(pool)
	ratings := postgresrepo.NewRatingRepository(pool)
	visits := postgresrepo.NewVisitRepository(pool)
	adminLogs := postgresrepo.NewAdminLogRepository(pool)
	adminStats := postgresrepo.NewAdminStatsRepository(pool)

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: "travelmap:rate-limit",
		TTL:       rateLimitWindow * 2,
	})
	loginLimiter := usecase.NewLoginRateLimiter(rateLimitStore, rateLimitWindow, cfg.RateLimit.LoginMaxAttempts)

	authService, err := usecase.NewAuthService(
		users, sessions, hasher, passwords, tokens, events, loginLimiter,
		cfg.Auth.SessionTTL, cfg.Auth.SessionTokenLength,
	)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("init auth service: %w", err)
	}

	registrationService := usecase.NewRegistrationService(users, authService, hasher, passwords, events)
	adminService := usecase.NewAdminService(users, sessions, adminLogs, adminStats, events)
	placeService := usecase.NewPlaceService(places, reviews, adminLogs)
	interactionService := usecase.NewUserPlacesService(places, reviews, favorites, ratings, visits)

	weatherCache := redisrepo.NewCacheRepository(redisClient.Client(), "travelmap:weather")
	weatherProvider := weatherinfra.NewOpenMeteoClient(cfg.Weather, log)
	weatherService := usecase.NewWeatherService(
		weatherProvider, weatherCache, cfg.Weather.CacheTTL,
		cfg.Weather.Latitude, cfg.Weather.Longitude,
	)

	mapService := usecase.NewMapService(places)
	chatService := usecase.NewChatService(places)

	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)
	httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Metrics:     httpMetrics,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Auth:         authService,
			Registration: registrationService,
			Admin:        adminService,
			Places:       placeService,
			Interactions: interactionService,
			Weather:      weatherService,
			Maps:         mapService,
			Chat:         chatService,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
		tracer: tracer,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.tracer != nil {
			_ = a.tracer.Shutdown(context.Background())
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting TravelMap API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
