package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/acadops/timetable-api/api/swagger"
	"github.com/acadops/timetable-api/internal/handler"
	"github.com/acadops/timetable-api/internal/middleware"
	"github.com/acadops/timetable-api/internal/repository"
	"github.com/acadops/timetable-api/internal/service"
	"github.com/acadops/timetable-api/pkg/config"
	"github.com/acadops/timetable-api/pkg/database"
	"github.com/acadops/timetable-api/pkg/jobs"
	"github.com/acadops/timetable-api/pkg/logger"
	corsmiddleware "github.com/acadops/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/acadops/timetable-api/pkg/middleware/requestid"
	"github.com/acadops/timetable-api/pkg/storage"
)

// @title Campus Timetable API
// @version 1.0.0
// @description Weekly class-session allocator with hour reconciliation and exportable reports
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Warnw("database unavailable, runs will not be persistable", "error", err)
		db = nil
	} else {
		defer db.Close() //nolint:errcheck
	}

	metrics := service.NewMetricsService()

	timetableCfg := service.TimetableServiceConfig{
		AttemptBudget: cfg.Scheduler.AttemptBudget,
		RunTTL:        cfg.Scheduler.RunTTL,
		Seed:          cfg.Scheduler.Seed,
	}
	var timetableSvc *service.TimetableService
	if db != nil {
		timetableSvc = service.NewTimetableService(repository.NewRunRepository(db), metrics, nil, logr, timetableCfg)
	} else {
		timetableSvc = service.NewTimetableService(nil, metrics, nil, logr, timetableCfg)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if db != nil {
			if err := db.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	timetables := api.Group("/timetables")
	{
		timetables.POST("/generate", timetableHandler.Generate)
		timetables.GET("/runs/:id", timetableHandler.GetRun)
		timetables.GET("/runs/:id/audit", timetableHandler.GetAudit)
		timetables.GET("/runs/:id/faculty", timetableHandler.FacultySchedule)
		timetables.POST("/runs/:id/save", timetableHandler.SaveRun)
	}

	var reportQueue *jobs.Queue
	var reportSvc *service.ReportService
	if cfg.Reports.Enabled && db != nil {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exporter := service.NewExportService(timetableSvc, store, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Reports.SignedURLTTL,
		}, logr, nil, nil)

		reportRepo := repository.NewReportRepository(db)
		worker := service.NewReportWorker(reportRepo, exporter, metrics, cfg.Reports.WorkerRetries, logr)
		reportQueue = jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			Logger:     logr,
		})
		reportQueue.Start(ctx)

		reportSvc = service.NewReportService(reportRepo, timetableSvc, reportQueue, exporter, logr, service.ReportServiceConfig{
			ResultTTL:       cfg.Reports.SignedURLTTL,
			CleanupInterval: cfg.Reports.CleanupInterval,
			MaxRetries:      cfg.Reports.WorkerRetries,
		})
		reportSvc.RecoverPendingJobs(ctx)
		reportSvc.StartCleanup(ctx)

		reportHandler := handler.NewReportHandler(reportSvc)
		reports := api.Group("/reports")
		{
			reports.POST("", reportHandler.GenerateReport)
			reports.GET("/:id", reportHandler.ReportStatus)
			reports.GET("/download/:token", reportHandler.DownloadReport)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "reports", cfg.Reports.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	if reportQueue != nil {
		reportQueue.Stop()
	}
	logr.Info("server stopped", zap.String("addr", addr))
}
