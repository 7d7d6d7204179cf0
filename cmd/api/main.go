package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/examdesk/answersheet-api/internal/handler"
	"github.com/examdesk/answersheet-api/internal/middleware"
	"github.com/examdesk/answersheet-api/internal/repository"
	"github.com/examdesk/answersheet-api/internal/service"
	"github.com/examdesk/answersheet-api/pkg/cache"
	"github.com/examdesk/answersheet-api/pkg/config"
	"github.com/examdesk/answersheet-api/pkg/database"
	"github.com/examdesk/answersheet-api/pkg/logger"
	corsmiddleware "github.com/examdesk/answersheet-api/pkg/middleware/cors"
	reqidmiddleware "github.com/examdesk/answersheet-api/pkg/middleware/requestid"
	"github.com/examdesk/answersheet-api/pkg/storage"
)

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	store, err := storage.NewMinioStore(cfg.Storage)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to object storage", "error", err)
	}

	var paperCache *service.PaperCache
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, running without paper cache", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			paperCache = service.NewPaperCache(redisClient, cfg.Redis.PaperTTL, logr)
		}
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	workbookRepo := repository.NewWorkbookRepository(db)
	imageRepo := repository.NewImageRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	questionSvc := service.NewQuestionService(questionRepo, store, validate, logr)
	workbookSvc := service.NewWorkbookService(workbookRepo, questionRepo, validate, logr)
	imageSvc := service.NewImageService(imageRepo, workbookRepo, userRepo, store, paperCache, validate, logr, cfg.Storage.PresignTTL)
	reportSvc := service.NewReportService(workbookRepo, userRepo, nil, logr)
	metricsSvc := service.NewMetricsService()

	authHandler := handler.NewAuthHandler(authSvc)
	questionHandler := handler.NewQuestionHandler(questionSvc, cfg.Upload.MaxFileSizeBytes)
	workbookHandler := handler.NewWorkbookHandler(workbookSvc)
	imageHandler := handler.NewImageHandler(imageSvc, cfg.Upload.MaxFileSizeBytes)
	reportHandler := handler.NewReportHandler(reportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	r.POST("/users/signup", authHandler.Signup)
	r.POST("/users/login", authHandler.Login)

	authed := r.Group("/", middleware.JWT(authSvc))
	authed.POST("/questions/create", questionHandler.Create)
	authed.POST("/users/workbook/assign", workbookHandler.Assign)
	authed.POST("/images/upload", imageHandler.Upload)
	authed.POST("/images/get", imageHandler.Get)
	authed.POST("/marking/open", workbookHandler.OpenMarking)
	authed.POST("/marking/submit", workbookHandler.SubmitMarking)
	authed.GET("/reports/workbook/:workbook_id", reportHandler.Workbook)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
