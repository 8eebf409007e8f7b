package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/esn-apps/scholarship-review-api/api/swagger"
	"github.com/esn-apps/scholarship-review-api/internal/handler"
	"github.com/esn-apps/scholarship-review-api/internal/middleware"
	"github.com/esn-apps/scholarship-review-api/internal/models"
	"github.com/esn-apps/scholarship-review-api/internal/repository"
	"github.com/esn-apps/scholarship-review-api/internal/service"
	"github.com/esn-apps/scholarship-review-api/pkg/cache"
	"github.com/esn-apps/scholarship-review-api/pkg/config"
	"github.com/esn-apps/scholarship-review-api/pkg/database"
	"github.com/esn-apps/scholarship-review-api/pkg/jobs"
	"github.com/esn-apps/scholarship-review-api/pkg/logger"
	corsmiddleware "github.com/esn-apps/scholarship-review-api/pkg/middleware/cors"
	reqidmiddleware "github.com/esn-apps/scholarship-review-api/pkg/middleware/requestid"
)

// @title Scholarship Review API
// @version 1.0.0
// @description Scholarship application review: CSV import, role scoring, review sessions and ranking
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	editionRepo := repository.NewEditionRepository(db)
	applicationRepo := repository.NewApplicationRepository(db, cfg.Import.ChunkSize)
	reviewRepo := repository.NewReviewRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient, cfg.Sessions.TTL)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	reviewFeed := repository.NewReviewFeed(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            "scholarship-review-api",
	})
	editionSvc := service.NewEditionService(editionRepo, applicationRepo, validate, logr)
	applicationSvc := service.NewApplicationService(applicationRepo, editionRepo, logr)
	importSvc := service.NewImportService(applicationRepo, editionRepo, validate, logr, jobs.QueueConfig{
		Workers:    cfg.Import.WorkerConcurrency,
		MaxRetries: cfg.Import.WorkerRetries,
		Logger:     logr,
	})
	reviewSvc := service.NewReviewService(reviewRepo, applicationRepo, reviewFeed, cacheRepo, validate, logr)
	sessionSvc := service.NewSessionService(sessionRepo, applicationRepo, reviewRepo, logr)
	rankingSvc := service.NewRankingService(applicationRepo, reviewRepo, cacheRepo, cfg.Ranking.CacheTTL, metricsSvc, logr)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	importSvc.StartWorkers(workerCtx)
	defer importSvc.StopWorkers()

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	editionHandler := handler.NewEditionHandler(editionSvc)
	applicationHandler := handler.NewApplicationHandler(applicationSvc)
	importHandler := handler.NewImportHandler(importSvc, metricsSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc, metricsSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc, metricsSvc)
	rankingHandler := handler.NewRankingHandler(rankingSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "postgres": err.Error()})
			return
		}
		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.GET("/auth/me", authHandler.Me)

	authed.GET("/editions", editionHandler.List)
	authed.GET("/editions/:editionId", editionHandler.Get)
	authed.POST("/editions", middleware.RequireRoles(models.RoleAdmin), editionHandler.Create)
	authed.PATCH("/editions/:editionId", middleware.RequireRoles(models.RoleAdmin), editionHandler.Update)
	authed.DELETE("/editions/:editionId", middleware.RequireRoles(models.RoleAdmin), editionHandler.Delete)

	authed.POST("/editions/:editionId/import", middleware.RequireRoles(models.RoleAdmin), importHandler.Upload)
	authed.GET("/imports/:runId", middleware.RequireRoles(models.RoleAdmin), importHandler.Run)

	authed.GET("/editions/:editionId/applications", applicationHandler.List)
	authed.GET("/editions/:editionId/applications/:applicationId", applicationHandler.Get)

	authed.GET("/editions/:editionId/reviews", reviewHandler.List)
	authed.GET("/editions/:editionId/reviews/stream", reviewHandler.Stream)
	authed.GET("/editions/:editionId/applications/:applicationId/review", reviewHandler.Get)
	authed.PUT("/editions/:editionId/applications/:applicationId/review", middleware.RequireReviewer(), reviewHandler.Save)
	authed.POST("/editions/:editionId/applications/:applicationId/discard", middleware.RequireReviewer(), reviewHandler.Discard)
	authed.POST("/editions/:editionId/applications/:applicationId/restore", middleware.RequireReviewer(), reviewHandler.Restore)

	session := authed.Group("/session")
	session.Use(middleware.RequireReviewer())
	session.POST("", sessionHandler.Start)
	session.GET("", sessionHandler.Current)
	session.DELETE("", sessionHandler.End)
	session.POST("/next", sessionHandler.Next)
	session.POST("/previous", sessionHandler.Previous)
	session.POST("/jump", sessionHandler.Jump)
	session.POST("/resume", sessionHandler.Resume)

	authed.GET("/editions/:editionId/ranking", rankingHandler.Get)
	authed.GET("/editions/:editionId/ranking/export.csv", rankingHandler.ExportCSV)
	authed.GET("/editions/:editionId/ranking/export.pdf", rankingHandler.ExportPDF)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
