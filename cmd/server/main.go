package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"medtrack/docs"
	"medtrack/internal/auth"
	"medtrack/internal/cache"
	"medtrack/internal/config"
	"medtrack/internal/db"
	"medtrack/internal/handler"
	"medtrack/internal/logger"
	"medtrack/internal/middleware"
	"medtrack/internal/repository"
	"medtrack/internal/router"
	"medtrack/internal/service"
	"medtrack/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title MedTrack API
// @version 1.0
// @description Medical test tracking API with cookie-based JWT sessions.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name access_token
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Fatalf("reset database: %v", err)
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		log.WithError(err).Warn("redis unreachable, sessions cannot be revoked until it recovers")
	}

	var archive storage.Archive
	if cfg.MinIO.Enabled() {
		store, err := storage.NewMinIO(ctx, cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Bucket, cfg.MinIO.UseSSL)
		if err != nil {
			log.WithError(err).Warn("object storage unavailable, csv uploads will not be archived")
		} else {
			archive = store
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	formRepo := repository.NewMedicalFormRepository(gormDB)
	bloodRepo := repository.NewBloodTestRepository(gormDB)
	statsRepo := repository.NewStatsRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, cacheClient)
	formService := service.NewMedicalFormService(formRepo)
	bloodService := service.NewBloodTestService(bloodRepo)
	statsService := service.NewStatsService(statsRepo)
	cbcService := service.NewCBCService(archive, log)

	// Initialize handlers
	cookies := handler.CookieOptions{Secure: cfg.Cookie.Secure, Domain: cfg.Cookie.Domain}
	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authService, cookies, log),
		User:        handler.NewUserHandler(userService),
		MedicalForm: handler.NewMedicalFormHandler(formService, cbcService),
		BloodTest:   handler.NewBloodTestHandler(bloodService),
		Stats:       handler.NewStatsHandler(statsService),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, log, handlers, middleware.Session(jwtService, tokenStore, userService, log))

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}
	log.Infof("Swagger documentation available at http://%s/swagger/index.html", docs.SwaggerInfo.Host)

	go func() {
		addr := ":" + cfg.ServerPort
		log.Infof("server listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		return
	}
	log.Info("server stopped")
}
