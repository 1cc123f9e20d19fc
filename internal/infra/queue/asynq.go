// Package queue wires the asynq client and server used for the delivery
// fan-out.
package queue

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"classly/internal/domain/notification"
)

// NewClient creates a new asynq client connected to Redis.
func NewClient(redisAddr, password string, db int) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})
}

// NewServer creates a new asynq server connected to Redis.
func NewServer(redisAddr, password string, db int, concurrency int) *asynq.Server {
	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: password,
			DB:       db,
		},
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"notifications": 10, // priority weight
				"default":       1,
			},
			RetryDelayFunc: func(n int, e error, t *asynq.Task) time.Duration {
				// Exponential backoff: 30s, 60s, 120s, ...
				return time.Duration(30*(1<<uint(n-1))) * time.Second
			},
		},
	)
}

// Enqueuer adapts the asynq client to notification.Enqueuer.
type Enqueuer struct {
	client   *asynq.Client
	maxRetry int
}

var _ notification.Enqueuer = (*Enqueuer)(nil)

// NewEnqueuer creates an enqueuer. maxRetry bounds queue-level redelivery
// of the whole fan-out task; individual channel failures are never retried.
func NewEnqueuer(client *asynq.Client, maxRetry int) *Enqueuer {
	return &Enqueuer{client: client, maxRetry: maxRetry}
}

// EnqueueDeliver enqueues the delivery fan-out for a notification.
func (e *Enqueuer) EnqueueDeliver(notificationID string) error {
	task, err := notification.NewDeliverTask(notificationID)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}

	_, err = e.client.Enqueue(task,
		asynq.MaxRetry(e.maxRetry),
		asynq.Queue("notifications"),
	)
	if err != nil {
		return fmt.Errorf("enqueuing task: %w", err)
	}
	return nil
}
