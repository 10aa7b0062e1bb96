package bootstrap

import (
	"log/slog"

	"order-fulfillment/internal/handler/middleware"
	"order-fulfillment/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
)

func NewLogger(cfg config.Config) *slog.Logger {
	return middleware.NewLogger(cfg.Log)
}
