package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appsocial "github.com/joachimaross/quemiai-sub000/internal/application/social"
	"github.com/joachimaross/quemiai-sub000/internal/domain/social"
	"github.com/joachimaross/quemiai-sub000/internal/infrastructure/auth"
	"github.com/joachimaross/quemiai-sub000/internal/infrastructure/cache"
	"github.com/joachimaross/quemiai-sub000/internal/infrastructure/config"
	"github.com/joachimaross/quemiai-sub000/internal/infrastructure/logger"
	"github.com/joachimaross/quemiai-sub000/internal/infrastructure/persistence"
	"github.com/joachimaross/quemiai-sub000/internal/infrastructure/platform"
	"github.com/joachimaross/quemiai-sub000/internal/interfaces/http/handler"
	"github.com/joachimaross/quemiai-sub000/internal/interfaces/http/middleware"
	"github.com/joachimaross/quemiai-sub000/internal/interfaces/http/router"
)

// Token refresh sweep cadence. Connections whose tokens expire inside the
// window are refreshed ahead of time so aggregation calls never race an
// expiring token.
const (
	tokenRefreshInterval = 15 * time.Minute
	tokenRefreshWindow   = time.Hour
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting social gateway",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Profile cache: Redis when enabled, process-local otherwise
	var profileCache social.ProfileCache
	var closeCache func() error
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		redisCache, err := cache.NewRedisProfileCache(client, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		profileCache = redisCache
		closeCache = redisCache.Close
		log.Info("Profile cache backed by Redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		memCache := cache.NewInMemoryProfileCache(log)
		profileCache = memCache
		closeCache = memCache.Close
		log.Info("Profile cache backed by process memory")
	}
	defer func() {
		if err := closeCache(); err != nil {
			log.Error("Error closing profile cache", zap.Error(err))
		}
	}()

	// Initialize repositories
	connectionRepo := persistence.NewGormConnectionRepository(db.DB)

	// Register platform adapters. Adapters are always registered;
	// missing credentials surface as ErrPlatformNotConfigured at call
	// time so one unconfigured platform never blocks startup.
	registry := platform.NewRegistry()

	tiktokConfig := platform.NewTikTokConfig(
		cfg.Platforms.TikTok.ClientID,
		cfg.Platforms.TikTok.ClientSecret,
		cfg.Platforms.TikTok.RedirectURI,
	)
	if cfg.Platforms.TikTok.BaseURL != "" {
		tiktokConfig.APIBaseURL = cfg.Platforms.TikTok.BaseURL
	}
	registry.Register(platform.NewTikTokAdapter(tiktokConfig))

	instagramConfig := platform.NewInstagramConfig(
		cfg.Platforms.Instagram.ClientID,
		cfg.Platforms.Instagram.ClientSecret,
		cfg.Platforms.Instagram.RedirectURI,
	)
	if cfg.Platforms.Instagram.BaseURL != "" {
		instagramConfig.APIBaseURL = cfg.Platforms.Instagram.BaseURL
		instagramConfig.TokenBaseURL = cfg.Platforms.Instagram.BaseURL
	}
	registry.Register(platform.NewInstagramAdapter(instagramConfig))

	xAdapter, err := platform.NewOAuth2Adapter(platform.NewXConfig(
		cfg.Platforms.X.ClientID,
		cfg.Platforms.X.ClientSecret,
		cfg.Platforms.X.RedirectURI,
	))
	if err != nil {
		log.Fatal("Failed to create X adapter", zap.Error(err))
	}
	registry.Register(xAdapter)

	facebookAdapter, err := platform.NewOAuth2Adapter(platform.NewFacebookConfig(
		cfg.Platforms.Facebook.ClientID,
		cfg.Platforms.Facebook.ClientSecret,
		cfg.Platforms.Facebook.RedirectURI,
	))
	if err != nil {
		log.Fatal("Failed to create Facebook adapter", zap.Error(err))
	}
	registry.Register(facebookAdapter)

	configured := 0
	for _, p := range []config.PlatformCredentials{
		cfg.Platforms.TikTok, cfg.Platforms.Instagram, cfg.Platforms.X, cfg.Platforms.Facebook,
	} {
		if p.Configured() {
			configured++
		}
	}
	log.Info("Platform adapters registered",
		zap.Int("total", len(registry.List())),
		zap.Int("configured", configured),
	)

	// Initialize application services
	connectionService := appsocial.NewConnectionService(
		connectionRepo, registry, profileCache, log, cfg.Platforms.CallTimeout,
	)
	feedService := appsocial.NewFeedService(
		connectionRepo, registry, log, cfg.Platforms.CallTimeout,
	)
	publishService := appsocial.NewPublishService(
		connectionRepo, registry, log, cfg.Platforms.CallTimeout,
	)
	profileService := appsocial.NewProfileService(
		connectionRepo, registry, profileCache, log,
		cfg.Platforms.CallTimeout, cfg.Platforms.ProfileCacheTTL,
	)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	socialHandler := handler.NewSocialHandler(connectionService, feedService, publishService, profileService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, ordered: request ID, panic recovery, request
	// logging, security headers, CORS, body size limit.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/health",
			"/api/v1/ping",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	r.Register(router.SocialRoutes(socialHandler)).
		Register(router.SystemRoutes(systemHandler))

	r.Setup()

	// Background token refresh sweep
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(tokenRefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				refreshed, err := connectionService.RefreshExpiring(sweepCtx, tokenRefreshWindow)
				if err != nil {
					log.Error("Token refresh sweep failed", zap.Error(err))
					continue
				}
				if refreshed > 0 {
					log.Info("Token refresh sweep completed", zap.Int("refreshed", refreshed))
				}
			}
		}
	}()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
