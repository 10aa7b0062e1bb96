package components

import (
	"order-fulfillment/internal/handler"
	"order-fulfillment/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewOrderHandler,
		api.NewInventoryHandler,
	),
	fx.Invoke(handler.NewRouter),
)
