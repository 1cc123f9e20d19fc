package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"classly/internal/config"
	"classly/internal/domain/notification"
	"classly/internal/infra/email"
	"classly/internal/infra/push"
	"classly/internal/infra/queue"
	"classly/internal/infra/store"
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
	slog.Info("worker configuration loaded")

	// ==========================================
	// Dependency Injection (Manual Wiring)
	// ==========================================

	db, err := storage.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	notifStore := store.NewNotificationStore(db)
	directory := store.NewUserDirectory(db)

	// Channel senders. Each is optional; a missing configuration disables
	// the channel rather than failing the worker.
	var emailSender notification.EmailSender
	if cfg.Email.APIKey != "" {
		emailSender = email.NewResendSender(cfg.Email.APIKey, cfg.Email.FromAddress, cfg.Email.FromName)
		slog.Info("email channel enabled", "from", cfg.Email.FromAddress)
	}

	var webPushSender notification.WebPushSender
	if cfg.WebPush.VAPIDPrivateKey != "" {
		webPushSender = push.NewWebPushSender(
			cfg.WebPush.VAPIDPublicKey,
			cfg.WebPush.VAPIDPrivateKey,
			cfg.WebPush.Subscriber,
		)
		slog.Info("web push channel enabled")
	}

	var devicePushSender notification.DevicePushSender
	if cfg.FCM.CredentialsFile != "" {
		devicePushSender, err = push.NewFCMSender(context.Background(), cfg.FCM.CredentialsFile)
		if err != nil {
			slog.Error("failed to initialize fcm sender", "error", err)
			os.Exit(1)
		}
		slog.Info("mobile push channel enabled")
	}

	deliverer := notification.NewDeliverer(
		notifStore,
		directory,
		emailSender,
		webPushSender,
		devicePushSender,
		time.Duration(cfg.Dispatch.ChannelTimeoutSec)*time.Second,
	)

	// Asynq client for the reaper's re-enqueues
	asynqClient := queue.NewClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	defer asynqClient.Close()
	enqueuer := queue.NewEnqueuer(asynqClient, cfg.Queue.MaxRetry)

	// Stale-record reaper: recovers PENDING rows whose queue task was lost.
	reaperCtx, reaperCancel := context.WithCancel(context.Background())
	defer reaperCancel()

	reaper := notification.NewReaper(notifStore, enqueuer, notification.ReaperConfig{
		Interval:       time.Duration(cfg.Reaper.IntervalSec) * time.Second,
		StaleThreshold: time.Duration(cfg.Reaper.StaleThresholdSec) * time.Second,
		BatchSize:      cfg.Reaper.BatchSize,
	})
	go reaper.Run(reaperCtx)

	// ==========================================
	// Asynq Server (task processing)
	// ==========================================

	asynqServer := queue.NewServer(
		cfg.Redis.Address,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Queue.Concurrency,
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TaskTypeDeliver, func(ctx context.Context, task *asynq.Task) error {
		payload, err := notification.ParseDeliverPayload(task.Payload())
		if err != nil {
			return err
		}
		_, err = deliverer.Deliver(ctx, payload.NotificationID)
		return err
	})

	go func() {
		slog.Info("worker starting",
			"concurrency", cfg.Queue.Concurrency,
			"redis", cfg.Redis.Address,
		)
		if err := asynqServer.Run(mux); err != nil {
			slog.Error("worker failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down worker...")
	reaperCancel()
	asynqServer.Shutdown()
	slog.Info("worker exited gracefully")
}
