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
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/eboard-api/api/swagger"
	"github.com/noah-isme/eboard-api/internal/handler"
	internalmiddleware "github.com/noah-isme/eboard-api/internal/middleware"
	"github.com/noah-isme/eboard-api/internal/repository"
	"github.com/noah-isme/eboard-api/internal/service"
	"github.com/noah-isme/eboard-api/pkg/cache"
	"github.com/noah-isme/eboard-api/pkg/config"
	"github.com/noah-isme/eboard-api/pkg/database"
	"github.com/noah-isme/eboard-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/eboard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/eboard-api/pkg/middleware/requestid"
	"github.com/noah-isme/eboard-api/pkg/storage"
)

// @title Neyveli e-Notice Board API
// @version 1.0.0
// @description Notices, archival and dashboard counters for the municipal notice board
// @BasePath /
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.Database.Driver, err)
	}
	defer db.Close()

	metrics := service.NewMetricsService()
	notices := repository.NewNoticeRepository(db, metrics)

	var redisClient *redis.Client
	if cfg.Stats.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, stats cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, "eboard:")
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Stats.CacheTTL, logr, cfg.Stats.CacheEnabled && redisClient != nil)

	uploads, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		return err
	}

	statsSvc := service.NewStatsService(notices, cacheSvc, cfg.Stats.CacheTTL, logr)
	attachmentSvc := service.NewAttachmentService(uploads, service.AttachmentConfig{
		URLPrefix:   cfg.Uploads.URLPrefix,
		MaxFileSize: cfg.Uploads.MaxFileSizeBytes,
	}, logr)
	noticeSvc := service.NewNoticeService(notices, attachmentSvc, statsSvc, metrics, nil, logr, service.NoticeServiceConfig{
		StrictExpiry: cfg.Notices.StrictExpiry,
	})
	exportSvc := service.NewExportService(notices, nil, nil, logr)

	bootCtx, cancelBoot := context.WithTimeout(ctx, 30*time.Second)
	err = noticeSvc.Bootstrap(bootCtx, notices, cfg.Database.SeedSamples, repository.DefaultSeedNotices())
	cancelBoot()
	if err != nil {
		return fmt.Errorf("bootstrap notices: %w", err)
	}

	scheduler := service.NewArchiveScheduler(notices, statsSvc, metrics, service.ArchiveSchedulerConfig{
		Interval:   cfg.Archival.Interval,
		Timeout:    cfg.Archival.Timeout,
		RunOnStart: cfg.Archival.RunOnStart,
	}, logr)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	checks := map[string]handler.Pinger{"database": db}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(cacheRepo.Ping)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	r.MaxMultipartMemory = 8 << 20

	metricsHandler := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.Static("/"+cfg.Uploads.URLPrefix, uploads.Dir())

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	noticeHandler := handler.NewNoticeHandler(noticeSvc, exportSvc)
	statsHandler := handler.NewStatsHandler(statsSvc)
	api := r.Group("/api")
	{
		api.GET("/notices", noticeHandler.List)
		api.GET("/notices/export", noticeHandler.Export)
		api.GET("/notices/:id", noticeHandler.Get)
		api.POST("/notices", noticeHandler.Create)
		api.PUT("/notices/:id", noticeHandler.Update)
		api.DELETE("/notices/:id", noticeHandler.Delete)
		api.PUT("/notices/:id/archive", noticeHandler.Archive)
		api.GET("/stats", statsHandler.Get)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
