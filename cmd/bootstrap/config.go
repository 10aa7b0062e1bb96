package bootstrap

import (
	"order-fulfillment/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
	ConfigSections,
)

// ConfigSections hands each component only its own section.
var ConfigSections = fx.Provide(
	func(cfg config.Config) config.SagaConfig { return cfg.Saga },
	func(cfg config.Config) config.RelayConfig { return cfg.Relay },
	func(cfg config.Config) config.SweeperConfig { return cfg.Sweeper },
	func(cfg config.Config) config.PaymentConfig { return cfg.Payment },
	func(cfg config.Config) config.QueueConfig { return cfg.Queue },
)
