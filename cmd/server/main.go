package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"indoor-network/internal/app"
	"indoor-network/internal/config"
	"indoor-network/internal/database"
	"indoor-network/internal/logger"
	"indoor-network/internal/reference"
	"indoor-network/internal/routes"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logr := logger.New(cfg)
	defer logr.Sync()

	if err := cfg.Validate(); err != nil {
		logr.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := database.New(cfg.DatabaseURL, cfg)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	refs, err := reference.Connect(startCtx, cfg.MongoURL, cfg.MongoDatabase)
	cancelStart()
	if err != nil {
		logr.Fatal("failed to connect to reference store", zap.Error(err))
	}

	a, err := app.New(db, refs, cfg, logr)
	if err != nil {
		logr.Fatal("failed to initialise services", zap.Error(err))
	}

	if cfg.EnsureSchema {
		if err := database.EnsureSchema(context.Background(), db, a.PedestrianMapping); err != nil {
			logr.Fatal("failed to ensure schema", zap.Error(err))
		}
	}

	r := routes.NewRouter(a, cfg, logr)

	// imports and exports run inside the request
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ConverterTimeout + cfg.StatementTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Info("server started", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logr.Fatal("server forced to shutdown", zap.Error(err))
	}

	if err := refs.Close(ctx); err != nil {
		logr.Warn("reference store close failed", zap.Error(err))
	}
	_ = db.Close()
	logr.Info("server exited gracefully")
}
