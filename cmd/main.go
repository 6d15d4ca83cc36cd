package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"accounthub/internal/authz"
	"accounthub/internal/caching"
	"accounthub/internal/credentials"
	"accounthub/internal/events"
	"accounthub/internal/handlers"
	"accounthub/internal/jobs"
	"accounthub/internal/middleware"
	"accounthub/internal/models"
	"accounthub/internal/repositories"
	"accounthub/internal/services"
	"accounthub/internal/token"
	"accounthub/pkg/config"
	"accounthub/pkg/database"
	"accounthub/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.DB.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	mediaSvc, err := services.NewMediaService(
		cfg.Minio.Endpoint,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
		cfg.Minio.Bucket,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize media service")
	}
	if err := mediaSvc.EnsureBucketExists(ctx); err != nil {
		log.Warn().Err(err).Msg("profile picture bucket unavailable")
	}

	codec := credentials.NewCodec(cfg.Codes.TTL)
	issuer := token.NewIssuer(cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.Issuer, codec, nil)

	notifier := services.NewNotificationService(redisClient, log)
	publisher := events.NewRedisPublisher(redisClient, log)
	cache := caching.NewRedisCache(redisClient)

	accountRepo := repositories.NewAccountRepo(pool)
	inviteRepo := repositories.NewInviteRepo(pool)
	workspaceRepo := repositories.NewWorkspaceRepo(pool)

	accountSvc := services.NewAccountService(accountRepo, codec, notifier, publisher)
	inviteSvc := services.NewInviteService(inviteRepo, codec, notifier)
	workspaceSvc := services.NewWorkspaceService(workspaceRepo, cache)

	guard := authz.NewGuard()
	scopes := middleware.NewScopeMiddleware(guard)
	audit := middleware.NewAuditMiddleware(log)
	versions := middleware.NewVersionMiddleware()

	scheduler, err := jobs.NewScheduler(inviteRepo, redisClient, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create background scheduler")
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("scheduler shutdown failed")
		}
	}()

	authHandlers := handlers.NewAuthHandlers(accountSvc, issuer, codec)
	meHandlers := handlers.NewMeHandlers(accountSvc, mediaSvc)
	inviteHandlers := handlers.NewInviteHandlers(inviteSvc)
	workspaceHandlers := handlers.NewWorkspaceHandlers(workspaceSvc, accountSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, redisClient, version)

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	v1 := versions.VersionRoute(e, versions.CurrentVersion())
	v1.Use(audit.AuditRequest())

	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(cache, 20, time.Minute))
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/signin", authHandlers.Signin)
	auth.POST("/verify-email", authHandlers.VerifyEmail)
	auth.POST("/forgot-password", authHandlers.ForgotPassword)
	auth.POST("/reset-password", authHandlers.ResetPassword)

	// Invite acceptance proves possession of the emailed code, no session needed.
	v1.POST("/invites/:id/accept", inviteHandlers.Accept)

	protected := v1.Group("")
	protected.Use(middleware.Authenticate(issuer, accountRepo))

	protected.GET("/me", meHandlers.Get)
	protected.PATCH("/me", meHandlers.Patch)
	protected.PUT("/me/password", meHandlers.UpdatePassword)
	protected.POST("/me/avatar/upload-url", meHandlers.AvatarUploadURL)
	protected.GET("/me/avatar", meHandlers.AvatarURL)

	protected.GET("/invites", inviteHandlers.List, scopes.RequireScope(models.ScopeInviteGet))
	protected.POST("/invites", inviteHandlers.Create, scopes.RequireScope(models.ScopeInviteCreate))
	protected.GET("/invites/:id", inviteHandlers.Get, scopes.RequireScope(models.ScopeInviteGet))
	protected.POST("/invites/:id/resend", inviteHandlers.Resend, scopes.RequireScope(models.ScopeInviteUpdate))
	protected.DELETE("/invites/:id", inviteHandlers.Delete, scopes.RequireScope(models.ScopeInviteDelete))

	protected.POST("/workspaces", workspaceHandlers.Create)
	protected.GET("/workspaces/:id", workspaceHandlers.Get)
	protected.PUT("/workspaces/:id", workspaceHandlers.Rename)
	protected.DELETE("/workspaces/:id", workspaceHandlers.Delete)

	log.Info().Str("addr", cfg.HTTP.Addr()).Str("version", version).Msg("starting server")
	if err := e.Start(cfg.HTTP.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
