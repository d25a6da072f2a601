package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Yayabtw/ishak-school-new/api/swagger"
	"github.com/Yayabtw/ishak-school-new/internal/handler"
	internalmiddleware "github.com/Yayabtw/ishak-school-new/internal/middleware"
	"github.com/Yayabtw/ishak-school-new/internal/repository"
	"github.com/Yayabtw/ishak-school-new/internal/service"
	"github.com/Yayabtw/ishak-school-new/internal/validation"
	"github.com/Yayabtw/ishak-school-new/pkg/cache"
	"github.com/Yayabtw/ishak-school-new/pkg/config"
	"github.com/Yayabtw/ishak-school-new/pkg/database"
	"github.com/Yayabtw/ishak-school-new/pkg/logger"
	corsmiddleware "github.com/Yayabtw/ishak-school-new/pkg/middleware/cors"
	reqidmiddleware "github.com/Yayabtw/ishak-school-new/pkg/middleware/requestid"
)

// @title School Management API
// @version 1.0.0
// @description REST backend for teachers, students, courses and enrollments
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
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, list caching disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	defer cacheRepo.Close()

	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	validator := validation.New(nil)
	cacheSvc := service.NewCacheService(cacheRepo, cfg.Cache.Enabled, cfg.Cache.ListTTL, logr)
	metricsSvc := service.NewMetricsService()

	teacherSvc := service.NewTeacherService(teacherRepo, courseRepo, validator, logr)
	studentSvc := service.NewStudentService(studentRepo, enrollmentRepo, validator, logr, nil, nil)
	courseSvc := service.NewCourseService(courseRepo, teacherRepo, cacheSvc, validator, logr, nil)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, courseRepo, cacheSvc, validator, logr, nil)
	exportSvc := service.NewExportService(teacherRepo, studentRepo, courseRepo, enrollmentRepo, service.ExportConfig{
		Enabled: cfg.Exports.Enabled,
		MaxRows: cfg.Exports.MaxRows,
	}, logr, nil)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.WithResponseMeta())
	r.Use(internalmiddleware.Metrics(metricsSvc))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Teachers:    handler.NewTeacherHandler(teacherSvc),
		Students:    handler.NewStudentHandler(studentSvc, nil),
		Courses:     handler.NewCourseHandler(courseSvc, metricsSvc),
		Enrollments: handler.NewEnrollmentHandler(enrollmentSvc, metricsSvc),
		Exports:     handler.NewExportHandler(exportSvc),
		Metrics:     handler.NewMetricsHandler(metricsSvc),
	}, db)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
