package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classly/internal/config"
	"classly/internal/domain/catalog"
	"classly/internal/domain/notification"
	"classly/internal/domain/user"
	"classly/internal/infra/queue"
	"classly/internal/infra/ratelimit"
	"classly/internal/infra/store"
	"classly/internal/router"
	"classly/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("configuration loaded", "port", cfg.Server.Port, "mode", cfg.Server.Mode)

	// ==========================================
	// Dependency Injection (Manual Wiring)
	// ==========================================

	db, err := storage.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	if err := storage.Migrate(db); err != nil {
		slog.Error("failed to migrate schema", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready", "driver", cfg.Database.Driver)

	// Asynq client (for enqueuing delivery tasks)
	asynqClient := queue.NewClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	defer asynqClient.Close()
	enqueuer := queue.NewEnqueuer(asynqClient, cfg.Queue.MaxRetry)
	slog.Info("asynq client initialized", "redis", cfg.Redis.Address)

	// Per-recipient dispatch limiter
	recipientLimiter := ratelimit.NewRedisRecipientLimiter(
		cfg.Redis.Address,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.RecipientRateLimit.MaxPerHour,
	)
	defer recipientLimiter.Close()

	// Stores
	userStore := user.NewStore(db)
	catalogStore := catalog.NewStore(db)
	notifStore := store.NewNotificationStore(db)
	directory := store.NewUserDirectory(db)

	// Services and handlers
	notifService := notification.NewService(notifStore, directory, enqueuer, recipientLimiter)
	userHandler := user.NewHandler(userStore, cfg.Pagination.MaxPageSize)
	catalogHandler := catalog.NewHandler(catalogStore, cfg.Pagination.MaxPageSize)
	notifHandler := notification.NewHandler(notifService, cfg.Pagination.MaxPageSize)

	r := router.New(cfg, userHandler, catalogHandler, notifHandler)

	// ==========================================
	// HTTP Server with Graceful Shutdown
	// ==========================================

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Give outstanding requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}
