package ledger

import (
	"context"
	"log/slog"

	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/internal/pkg/poller"
)

// Sweeper expires overdue reservations in the background.
type Sweeper struct {
	ledger Ledger
	cfg    config.SweeperConfig
	logger *slog.Logger
	poller *poller.Poller
}

func NewSweeper(ledger Ledger, cfg config.SweeperConfig, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sweeper{ledger: ledger, cfg: cfg, logger: logger}
	s.poller = poller.New("reservation-sweeper", cfg.Interval, s.sweep, logger)
	return s
}

func (s *Sweeper) Start() {
	if !s.cfg.Enabled {
		s.logger.Info("reservation sweeper disabled")
		return
	}
	s.poller.Start()
}

func (s *Sweeper) Stop(ctx context.Context) error {
	return s.poller.Stop(ctx)
}

func (s *Sweeper) sweep(ctx context.Context) error {
	n, err := s.ledger.ExpireReservations(ctx, s.cfg.BatchSize)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Info("expired reservations released", "count", n)
	}
	return nil
}
