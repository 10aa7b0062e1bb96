package bootstrap

import (
	"context"

	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/internal/pkg/telemetry"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

var TelemetryModule = fx.Module("telemetry",
	fx.Provide(
		NewTracerProvider,
	),
)

func NewTracerProvider(lc fx.Lifecycle, cfg config.Config) (trace.TracerProvider, error) {
	tp, shutdown, err := telemetry.Setup(context.Background(), cfg.Telemetry)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: shutdown,
	})
	return tp, nil
}
