package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"order-fulfillment/internal/infra/queue"
	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/internal/usecase/shared"

	"go.uber.org/fx"
)

// JobQueue is the broker seen from both sides.
type JobQueue interface {
	shared.Enqueuer
	shared.Worker
}

var QueueModule = fx.Module("queue",
	fx.Provide(
		NewJobQueue,
		func(q JobQueue) shared.Enqueuer { return q },
		func(q JobQueue) shared.Worker { return q },
	),
)

// NewJobQueue starts consuming only after every fx.Invoke has registered its handlers.
func NewJobQueue(lc fx.Lifecycle, cfg config.QueueConfig, logger *slog.Logger) (JobQueue, error) {
	var q JobQueue
	switch cfg.Driver {
	case config.QueueDriverMemory:
		q = queue.NewMemoryQueue(cfg.Concurrency, cfg.DefaultBackoff, logger)
	case config.QueueDriverKafka:
		q = queue.NewKafkaQueue(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown QUEUE_DRIVER %q", cfg.Driver)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting job queue", "driver", cfg.Driver)
			return q.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return q.Stop(ctx)
		},
	})
	return q, nil
}
