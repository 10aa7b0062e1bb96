package bootstrap

import (
	"order-fulfillment/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	TelemetryModule,
	DBModule,
	QueueModule,
	components.UseCaseModule,
	components.BackgroundModule,
	components.HandlerModule,
)
