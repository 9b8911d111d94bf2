package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/app/apiapp"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/config"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/infra/logger"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/jobs/cleanup"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/migrations"
)

func main() {
	cfgPath := os.Getenv("APP_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrations.Up(cfg.Postgres.DSN); err != nil {
		log.Warn("migrations failed, continuing in degraded mode", zap.Error(err))
	}

	app, err := apiapp.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("create api app", zap.Error(err))
	}

	expiryJob := cleanup.NewRegistrationExpiryJob(app.RegistrationService(), cfg.Cleanup.Interval, log)
	go func() {
		if err := expiryJob.Start(ctx); err != nil {
			log.Error("registration expiry job stopped", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Run()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown api app", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api server failed", zap.Error(err))
		}
	}
}
