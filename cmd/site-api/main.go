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
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/atlas-sports/site-api/api/swagger"
	"github.com/atlas-sports/site-api/internal/form"
	"github.com/atlas-sports/site-api/internal/handler"
	"github.com/atlas-sports/site-api/internal/middleware"
	"github.com/atlas-sports/site-api/internal/repository"
	"github.com/atlas-sports/site-api/internal/router"
	"github.com/atlas-sports/site-api/internal/service"
	"github.com/atlas-sports/site-api/pkg/cache"
	"github.com/atlas-sports/site-api/pkg/config"
	"github.com/atlas-sports/site-api/pkg/database"
	"github.com/atlas-sports/site-api/pkg/jobs"
	"github.com/atlas-sports/site-api/pkg/logger"
	"github.com/atlas-sports/site-api/pkg/storage"
)

// @title Atlas Sports Site API
// @version 1.0.0
// @description Public listings and back-office API of the Atlas Sports marketing site
// @BasePath /
// @schemes http https

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	store, err := storage.NewLocalStorage(cfg.Uploads.Dir, cfg.Uploads.PublicBaseURL)
	if err != nil {
		logr.Fatal("failed to prepare upload storage", zap.Error(err))
	}

	validate := form.NewValidator()
	clock := service.SystemClock(cfg.Site.Location())
	metrics := service.NewMetricsService()

	programRepo := repository.NewProgramRepository(db)
	eventRepo := repository.NewEventRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	settingRepo := repository.NewSiteSettingRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	listings := repository.NewListingCache(redisClient, logr)
	cacheSvc := service.NewCacheService(listings, metrics, cfg.Cache.TTL, logr, redisClient != nil)
	revalidator := service.NewRevalidationService(cacheSvc, metrics, logr)
	queue := jobs.NewQueue("revalidate", revalidator.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Revalidate.Workers,
		MaxRetries: cfg.Revalidate.Retries,
		Coalesce:   true,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()
	revalidator.AttachQueue(queue)

	settingsSvc := service.NewSettingsService(settingRepo, cacheSvc, revalidator, validate, logr)
	programSvc := service.NewProgramService(programRepo, service.ProgramServiceConfig{
		Events:      eventRepo,
		Banner:      settingsSvc,
		Cache:       cacheSvc,
		Revalidator: revalidator,
		Metrics:     metrics,
		Clock:       clock,
	}, validate, logr)
	eventSvc := service.NewEventService(eventRepo, cacheSvc, revalidator, clock, validate, logr)
	calendarSvc := service.NewCalendarService(eventSvc, metrics, clock, logr)
	announcementSvc := service.NewAnnouncementService(announcementRepo, cacheSvc, revalidator, clock, validate, logr)
	uploadSvc := service.NewUploadService(store, service.UploadConfig{MaxBytes: cfg.Uploads.MaxBytes, MaxWidth: cfg.Uploads.MaxWidth}, logr)
	authSvc := service.NewAuthService(adminRepo, service.AuthConfig{Secret: cfg.Auth.JWTSecret, Issuer: cfg.Auth.Issuer}, logr)

	checks := map[string]handler.Pinger{"postgres": db}
	if redisClient != nil {
		checks["redis"] = handler.PingerFunc(listings.Ping)
	}

	secure := cfg.Env == config.EnvProduction
	engine := router.New(router.Config{
		Docs:           cfg.Env != config.EnvProduction,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		PublicMaxAge:   cfg.Cache.TTL,
		UploadsDir:     store.Dir(),
		Gate:           middleware.GateConfig{CookieName: cfg.Auth.CookieName, SecureCookie: secure},
	}, router.Handlers{
		Public: handler.NewPublicHandler(handler.PublicServices{
			Programs:      programSvc,
			Events:        eventSvc,
			Calendar:      calendarSvc,
			Announcements: announcementSvc,
			Settings:      settingsSvc,
		}),
		Programs:      handler.NewProgramHandler(programSvc),
		Events:        handler.NewEventHandler(eventSvc),
		Announcements: handler.NewAnnouncementHandler(announcementSvc),
		Settings:      handler.NewSettingsHandler(settingsSvc),
		Uploads:       handler.NewUploadHandler(uploadSvc, cfg.Uploads.MaxBytes),
		Forms:         handler.NewFormHandler(),
		Auth:          handler.NewAuthHandler(handler.AuthConfig{LoginURL: cfg.Auth.LoginURL, CookieName: cfg.Auth.CookieName, SecureCookie: secure}),
		Metrics:       handler.NewMetricsHandler(metrics, checks),
	}, authSvc, metrics, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logr.Info("shutdown signal received")
	case err := <-serverErr:
		logr.Error("server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("shutdown complete")
}
