package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Poller runs fn every interval on a background goroutine. Stop prevents new
// ticks from starting and waits for the in-flight call to return; the call
// itself is never cancelled by Stop.
type Poller struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context) error
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

func New(name string, interval time.Duration, fn func(ctx context.Context) error, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		name:     name,
		interval: interval,
		fn:       fn,
		logger:   logger,
	}
}

func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.stop = make(chan struct{})
	p.done = make(chan struct{})

	go p.loop(p.stop, p.done)
	p.logger.Info("poller started", "poller", p.name, "interval", p.interval)
}

func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	close(p.stop)
	done := p.done
	p.mu.Unlock()

	select {
	case <-done:
		p.logger.Info("poller stopped", "poller", p.name)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Poller) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		// stop may have been closed while waiting on the ticker
		select {
		case <-stop:
			return
		default:
		}

		if err := p.fn(context.Background()); err != nil {
			p.logger.Warn("poll iteration failed", "poller", p.name, "error", err.Error())
		}
	}
}
