package saga

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy is capped exponential backoff: Base, doubling, never above Max, at
// most Attempts calls in total.
type Policy struct {
	Name     string
	Base     time.Duration
	Max      time.Duration
	Attempts int
}

// Do calls op until it succeeds, returns an error retry rejects, or the
// attempts run out. The last error is returned.
func (p Policy) Do(ctx context.Context, logger *slog.Logger, op func(ctx context.Context) error, retry func(error) bool) error {
	attempts := max(p.Attempts, 1)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = p.Base
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxInterval = p.Max
	policy.MaxElapsedTime = 0

	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !retry(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(attempts-1)), ctx), func(err error, next time.Duration) {
		logger.Warn("step failed, retrying",
			"step", p.Name, "attempt", attempt, "next_in", next, "error", err.Error())
	})
}
