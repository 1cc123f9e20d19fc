package notification

import (
	"context"
	"log/slog"
	"time"

	"classly/internal/model"
)

// ReaperConfig holds configuration for the stale-record reaper.
type ReaperConfig struct {
	// Interval is how often the reaper scans for stale records.
	Interval time.Duration

	// StaleThreshold is how long a record can stay PENDING before the
	// reaper considers its queue task lost and re-enqueues it.
	StaleThreshold time.Duration

	// BatchSize is the maximum number of stale records recovered per cycle.
	BatchSize int
}

// Reaper periodically scans the store for notifications stuck in PENDING
// and re-enqueues their delivery. The database is the source of truth: a
// row can stay PENDING forever if Redis is wiped or a task exhausts its
// retries against a transient store failure, and the reaper reconciles
// those rows back into the queue. Re-enqueuing an already in-flight record
// is safe because delivery short-circuits on anything terminal.
type Reaper struct {
	store    Store
	enqueuer Enqueuer
	config   ReaperConfig
}

// NewReaper creates a stale-record reaper.
func NewReaper(store Store, enqueuer Enqueuer, cfg ReaperConfig) *Reaper {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.StaleThreshold <= 0 {
		cfg.StaleThreshold = 10 * time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}

	return &Reaper{
		store:    store,
		enqueuer: enqueuer,
		config:   cfg,
	}
}

// Run starts the reaper loop. It blocks until the context is cancelled
// and should be called in a goroutine.
func (r *Reaper) Run(ctx context.Context) {
	slog.Info("reaper started",
		"interval", r.config.Interval,
		"stale_threshold", r.config.StaleThreshold,
		"batch_size", r.config.BatchSize,
	)

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reaper stopped")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep performs one reaper cycle: find stale PENDING records and
// re-enqueue their delivery. It returns the number of records recovered.
func (r *Reaper) Sweep(ctx context.Context) int {
	olderThan := time.Now().Add(-r.config.StaleThreshold)

	stale, err := r.store.ListStale(ctx, olderThan, r.config.BatchSize)
	if err != nil {
		slog.Error("reaper: failed to list stale records", "error", err)
		return 0
	}
	if len(stale) == 0 {
		return 0
	}

	slog.Warn("reaper: found stale records", "count", len(stale))

	recovered := 0
	for _, n := range stale {
		// Re-assert PENDING before enqueuing. The status does not change,
		// but the touch moves updated_at forward so the next sweep skips
		// the row while its fresh task is in flight.
		if err := r.store.UpdateStatus(ctx, n.ID, model.NotificationPending); err != nil {
			slog.Error("reaper: failed to touch stale record",
				"id", n.ID,
				"error", err,
			)
			continue
		}

		if err := r.enqueuer.EnqueueDeliver(n.ID); err != nil {
			slog.Error("reaper: failed to re-enqueue record",
				"id", n.ID,
				"error", err,
			)
			continue
		}

		recovered++
		slog.Info("reaper: recovered stale record",
			"id", n.ID,
			"age", time.Since(n.UpdatedAt).Round(time.Second),
		)
	}

	if recovered > 0 {
		slog.Info("reaper: sweep complete", "recovered", recovered, "total_stale", len(stale))
	}
	return recovered
}
