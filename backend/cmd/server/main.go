package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"link-graph/backend/internal/api"
	"link-graph/backend/internal/services"
	"link-graph/backend/internal/storage"
	"link-graph/backend/pkg/config"
	"link-graph/backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting HTTP API server...",
		zap.String("env", cfg.Env),
		zap.String("backend", cfg.StoreBackend))

	// Open the store and apply its schema
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := storage.Open(ctx, cfg, true)
	cancel()
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer store.Close()

	svc := services.New(store, services.Options{
		SearchTimeout: cfg.SearchTimeout,
		JWTSecret:     cfg.JWTSecret,
		JWTExpiresIn:  cfg.JWTExpiresIn,
	})
	router := api.NewRouter(svc, store, log, routerConfig(cfg))

	// Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port), zap.Bool("auth_required", cfg.AuthRequired))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

func routerConfig(cfg *config.Config) api.Config {
	return api.Config{
		CORSOrigin:   cfg.CORSOrigin,
		AuthRequired: cfg.AuthRequired,
		Production:   cfg.IsProduction(),
		Backend:      cfg.StoreBackend,
	}
}
