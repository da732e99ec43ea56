package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Gallerist/internal/config"
	"Gallerist/internal/handlers"
	"Gallerist/internal/media"
	"Gallerist/internal/middleware"
	"Gallerist/internal/repo"
	"Gallerist/internal/service"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	if err := cfg.Validate(); err != nil {
		sugar.Fatalw("invalid configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	store, err := media.FromConfig(cfg)
	if err != nil {
		sugar.Fatalw("failed to initialize media store", "backend", cfg.MediaBackend, "error", err)
	}

	categoryRepo := repo.NewCategoryRepository(gormDB)
	galleryRepo := repo.NewGalleryRepository(gormDB)
	adminRepo := repo.NewAdminRepository(gormDB)

	h := handlers.NewHandler(handlers.Services{
		Auth: service.NewAuthService(adminRepo, service.AuthOptions{
			Secret:            cfg.AuthSecret,
			TTL:               cfg.TokenTTL,
			AllowRegistration: cfg.RegistrationEnabled(),
		}, sugar),
		Categories: service.NewCategoryService(categoryRepo, galleryRepo, sugar),
		Gallery:    service.NewGalleryService(galleryRepo, categoryRepo, store, sugar),
		Uploads:    service.NewUploadService(store, sugar),
	}, sugar, cfg)

	addr := cfg.BaseURL
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"AppEnv", cfg.AppEnv,
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"MediaBackend", cfg.MediaBackend,
		"MediaFolder", cfg.MediaFolder,
		"MediaMaxMB", cfg.MediaMaxMB,
		"AllowRegistration", cfg.RegistrationEnabled(),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			sugar.Fatalw("Server failed", "error", err)
		}
	case <-ctx.Done():
		sugar.Infow("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("graceful shutdown failed", "error", err)
		}
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
