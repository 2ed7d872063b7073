package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/nlac-edu/gradetrack-api/api/swagger"
	"github.com/nlac-edu/gradetrack-api/internal/handler"
	"github.com/nlac-edu/gradetrack-api/internal/middleware"
	"github.com/nlac-edu/gradetrack-api/internal/service"
	"github.com/nlac-edu/gradetrack-api/internal/store"
	"github.com/nlac-edu/gradetrack-api/internal/syncer"
	"github.com/nlac-edu/gradetrack-api/pkg/cache"
	"github.com/nlac-edu/gradetrack-api/pkg/config"
	"github.com/nlac-edu/gradetrack-api/pkg/database"
	"github.com/nlac-edu/gradetrack-api/pkg/jobs"
	"github.com/nlac-edu/gradetrack-api/pkg/logger"
	corsmiddleware "github.com/nlac-edu/gradetrack-api/pkg/middleware/cors"
	reqidmiddleware "github.com/nlac-edu/gradetrack-api/pkg/middleware/requestid"
	"github.com/nlac-edu/gradetrack-api/pkg/storage"
)

// @title GradeTrack API
// @version 1.0.0
// @description Grade tracking backend: students, courses, enrollments, assessments, grades and mirror synchronization
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	kv := store.NewPostgresStore(db)
	if err := kv.Migrate(context.Background()); err != nil {
		logr.Sugar().Fatalw("failed to migrate store", "error", err)
	}

	// Mirror tiers in precedence order. A missing Redis only disables tier A.
	var backends []syncer.Backend
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unavailable, primary mirror tier disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		backends = append(backends, syncer.NewRedisBackend(redisClient))
	}
	files, err := storage.NewLocalStorage(cfg.Sync.MirrorDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare mirror directory", "error", err)
	}
	backends = append(backends, syncer.NewFileBackend(files))

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	sync := syncer.New(kv, backends,
		syncer.Config{Enabled: cfg.Sync.Enabled, Timeout: cfg.Sync.Timeout},
		jobs.QueueConfig{
			Workers:    cfg.Sync.PushWorkers,
			MaxRetries: cfg.Sync.PushRetries,
			RetryDelay: cfg.Sync.PushRetryDelay,
			Logger:     logr,
		},
		logr, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sync.Start(ctx)
	defer sync.Stop()
	if err := sync.Initialize(ctx); err != nil {
		logr.Sugar().Fatalw("failed to initialize store", "error", err)
	}

	validate := validator.New()
	studentSvc := service.NewStudentService(kv, validate, logr)
	courseSvc := service.NewCourseService(kv, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(kv, validate, logr)
	assessmentSvc := service.NewAssessmentService(kv, validate, logr)
	gradeSvc := service.NewGradeService(kv, validate, logr)
	reportSvc := service.NewReportService(gradeSvc, logr)
	authSvc := service.NewAuthService(sync, validate, logr, service.AuthConfig{
		Secret:            cfg.JWT.Secret,
		Expiration:        cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
		AdminUsername:     cfg.Admin.Username,
		AdminPassword:     cfg.Admin.Password,
		AdminPasswordHash: cfg.Admin.PasswordHash,
	})

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, gradeSvc, reportSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	assessmentHandler := handler.NewAssessmentHandler(assessmentSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	syncHandler := handler.NewSyncHandler(sync)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metrics != nil {
		r.Use(middleware.Metrics(metrics))
	}

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
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/student/login", authHandler.StudentLogin)
	api.POST("/auth/admin/login", authHandler.AdminLogin)

	authed := api.Group("", middleware.JWT(authSvc))
	authed.GET("/students/:id/summary", studentHandler.Summary)
	if cfg.Reports.Enabled {
		authed.GET("/students/:id/report-card", studentHandler.ReportCard)
	}

	admin := api.Group("", middleware.JWT(authSvc), middleware.RequireAdmin())
	admin.GET("/students", studentHandler.List)
	admin.POST("/students", studentHandler.Create)
	admin.GET("/students/:id", studentHandler.Get)
	admin.PUT("/students/:id", studentHandler.Update)
	admin.DELETE("/students/:id", studentHandler.Delete)

	admin.GET("/courses", courseHandler.List)
	admin.POST("/courses", courseHandler.Create)
	admin.GET("/courses/:id", courseHandler.Get)
	admin.PUT("/courses/:id", courseHandler.Update)
	admin.DELETE("/courses/:id", courseHandler.Delete)

	admin.GET("/enrollments", enrollmentHandler.List)
	admin.POST("/enrollments", enrollmentHandler.Create)
	admin.DELETE("/enrollments/:id", enrollmentHandler.Delete)

	admin.GET("/assessments", assessmentHandler.List)
	admin.POST("/assessments", assessmentHandler.Create)
	admin.PUT("/assessments/:id", assessmentHandler.Update)
	admin.DELETE("/assessments/:id", assessmentHandler.Delete)

	admin.GET("/grades", gradeHandler.List)
	admin.POST("/grades", gradeHandler.Upsert)

	admin.POST("/sync/push", syncHandler.Push)
	admin.GET("/sync/status", syncHandler.Status)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
