package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campus-horarios/timetable-api/api/swagger"
	"github.com/campus-horarios/timetable-api/internal/handler"
	"github.com/campus-horarios/timetable-api/internal/middleware"
	"github.com/campus-horarios/timetable-api/internal/repository"
	"github.com/campus-horarios/timetable-api/internal/service"
	"github.com/campus-horarios/timetable-api/pkg/cache"
	"github.com/campus-horarios/timetable-api/pkg/config"
	"github.com/campus-horarios/timetable-api/pkg/database"
	"github.com/campus-horarios/timetable-api/pkg/logger"
	corsmiddleware "github.com/campus-horarios/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campus-horarios/timetable-api/pkg/middleware/requestid"
)

// @title Timetable API
// @version 1.0.0
// @description Automatic timetable and group generation for university cycles
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

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, schedule cache disabled", "error", err)
		redisClient = nil
	}

	cycleRepo := repository.NewCycleRepository(db)
	professorRepo := repository.NewProfessorRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	scheduleRepo := repository.NewGeneralScheduleRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	scheduleSvc := service.NewScheduleService(scheduleRepo, cycleRepo, cacheRepo, metricsSvc, logr, service.ScheduleServiceConfig{
		CacheEnabled: cfg.Cache.Enabled && redisClient != nil,
		CacheTTL:     cfg.Cache.TTL,
	})
	resolver := service.NewSubjectResolver(cfg.Generator.FuzzyThreshold)
	groupSvc := service.NewGroupGeneratorService(cycleRepo, professorRepo, subjectRepo, classroomRepo, groupRepo, resolver, nil, nil, logr)
	generatorSvc := service.NewScheduleGeneratorService(
		cycleRepo, groupRepo, subjectRepo, availabilityRepo, scheduleRepo,
		scheduleSvc, metricsSvc, nil, logr,
		service.ScheduleGeneratorConfig{ReportTTL: cfg.Generator.ReportTTL},
	)

	schedulerHandler := handler.NewSchedulerHandler(generatorSvc)
	groupHandler := handler.NewGroupHandler(groupSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

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
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/cycles/:cycleId/groups/generate", groupHandler.Generate)
		api.GET("/cycles/:cycleId/groups", groupHandler.List)
		api.POST("/cycles/:cycleId/schedule/generate", schedulerHandler.Generate)
		api.GET("/schedule/runs/:runId", schedulerHandler.Report)
		api.GET("/cycles/:cycleId/schedule", scheduleHandler.ByCycle)
		api.GET("/cycles/:cycleId/schedule/export", scheduleHandler.ExportCSV)
		api.GET("/professors/:professorId/schedule", scheduleHandler.ByProfessor)
		api.GET("/classrooms/:classroomId/schedule", scheduleHandler.ByClassroom)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
