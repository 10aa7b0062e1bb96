package components

import (
	"context"
	"log/slog"

	"order-fulfillment/internal/infra/notification"
	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/internal/usecase/ledger"
	"order-fulfillment/internal/usecase/outbox"
	"order-fulfillment/internal/usecase/saga"
	"order-fulfillment/internal/usecase/shared"

	"go.uber.org/fx"
)

var BackgroundModule = fx.Module("background",
	fx.Provide(
		outbox.NewRelay,
		ledger.NewSweeper,
		fx.Annotate(
			notification.NewLogSender,
			fx.As(new(notification.Sender)),
		),
		notification.NewHandlers,
	),
	fx.Invoke(
		registerJobHandlers,
		startRelay,
		startSweeper,
	),
)

func registerJobHandlers(w shared.Worker, orderWorker *saga.Worker, notifications *notification.Handlers) {
	orderWorker.Register(w)
	notifications.Register(w)
}

func startRelay(lc fx.Lifecycle, cfg config.RelayConfig, relay *outbox.Relay, logger *slog.Logger) {
	if !cfg.Enabled {
		logger.Info("outbox relay disabled")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			relay.Start()
			return nil
		},
		OnStop: relay.Stop,
	})
}

func startSweeper(lc fx.Lifecycle, cfg config.SweeperConfig, sweeper *ledger.Sweeper, logger *slog.Logger) {
	if !cfg.Enabled {
		logger.Info("reservation sweeper disabled")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: sweeper.Stop,
	})
}
