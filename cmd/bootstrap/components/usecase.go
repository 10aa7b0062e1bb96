package components

import (
	"log/slog"

	"order-fulfillment/internal/domain/payment"
	paymentinfra "order-fulfillment/internal/infra/payment"
	"order-fulfillment/internal/pkg/clock"
	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/internal/usecase/commands"
	"order-fulfillment/internal/usecase/ledger"
	"order-fulfillment/internal/usecase/queries"
	"order-fulfillment/internal/usecase/saga"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseSagaModule,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	ledger.NewLedger,
	NewPaymentGateway,
)

var usecaseSagaModule = fx.Module("usecase/saga",
	fx.Provide(
		saga.NewOrchestrator,
		fx.Annotate(
			saga.NewScheduler,
			fx.As(fx.Self()),
			fx.As(new(commands.OrderScheduler)),
		),
		saga.NewWorker,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewOrderCommands,
		commands.NewInventoryCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewOrderQueries,
		queries.NewStockQueries,
	),
)

// NewPaymentGateway puts the circuit breaker in front of the provider.
func NewPaymentGateway(cfg config.PaymentConfig, clk clock.Clock, logger *slog.Logger) payment.Gateway {
	return paymentinfra.NewBreakerGateway(paymentinfra.NewSimulatedGateway(cfg, clk, logger), cfg, logger)
}
