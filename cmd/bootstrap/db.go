package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"order-fulfillment/internal/infra/db"
	"order-fulfillment/internal/infra/memstore"
	"order-fulfillment/internal/infra/sqlc"
	"order-fulfillment/internal/infra/uow"
	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/internal/usecase/shared"

	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewStore,
	),
)

// NewStore selects the unit of work backing every repository.
func NewStore(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.UnitOfWork, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return memstore.New(), nil
	case config.StoreDriverPostgres:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	ctx := context.Background()
	pool, cleanup, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.Migrate {
		if err := db.Migrate(ctx, pool); err != nil {
			cleanup()
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return uow.NewPostgresUoW(pool, sqlc.New()), nil
}
