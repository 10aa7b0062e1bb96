package outbox

import (
	"context"
	"encoding/json"

	"order-fulfillment/internal/domain/outbox"
	"order-fulfillment/internal/pkg/clock"
	"order-fulfillment/internal/pkg/errs"
	"order-fulfillment/internal/usecase/shared"
)

// Appender writes outbox entries through the caller's transaction only, so an
// entry commits or rolls back with the mutation it describes.
type Appender struct {
	clock clock.Clock
}

func NewAppender(clk clock.Clock) *Appender {
	return &Appender{clock: clk}
}

func (a *Appender) Append(ctx context.Context, tx shared.Tx, aggregateType outbox.AggregateType, aggregateID, eventType string, payload any) (*outbox.Entry, error) {
	raw, err := encodePayload(payload)
	if err != nil {
		return nil, err
	}
	entry, err := outbox.NewEntry(aggregateType, aggregateID, eventType, raw, a.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := tx.Outbox().Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func encodePayload(payload any) ([]byte, error) {
	switch p := payload.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return p, nil
	case []byte:
		return p, nil
	default:
		raw, err := json.Marshal(p)
		if err != nil {
			return nil, errs.WithClass(errs.Wrap(err, "failed to encode outbox payload"), errs.ClassValidation)
		}
		return raw, nil
	}
}
