package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"fintrack/internal/backend"
	"fintrack/internal/cache"
	"fintrack/internal/cli"
	"fintrack/internal/education"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/session"

	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 30 * time.Second
	cleanupInterval = time.Minute
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).Create(backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", log.FieldError, err, log.FieldBackend, backendCfg.Type.String())
		os.Exit(1)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	library, err := education.Load()
	if err != nil {
		logger.Error("Failed to load education content", log.FieldError, err)
		os.Exit(1)
	}

	sessions := session.NewManager(res.Records, session.Config{
		TTL:         cfg.SessionTTL,
		MaxSessions: cfg.SessionMax,
	}, logger)

	caches := cache.NewManager(logger)
	caches.Register(sessions.Cleaner())
	caches.StartCleanup(cleanupInterval)
	defer caches.Stop()

	var publisher services.EventPublisher
	if res.Publisher != nil {
		publisher = res.Publisher
	}
	recordService := services.NewRecordService(publisher, logger)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Sessions:           sessions,
		Records:            recordService,
		Backend:            res.Records,
		Library:            library,
		Currency:           cfg.Currency,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	})

	ctx, cancel := cli.ShutdownContext(logger)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting fintrack server",
			"port", cfg.Port,
			log.FieldBackend, backendCfg.Type.String(),
			"events", res.Publisher != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err, log.FieldOperation, log.OpShutdown)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
