//go:build unit

package outbox_test

import (
	"testing"
	"time"

	"order-fulfillment/internal/domain/outbox"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name      string
		aggType   outbox.AggregateType
		aggID     string
		eventType string
		payload   []byte
		errIs     error
	}{
		{name: "valid", aggType: outbox.AggregateOrder, aggID: "o-1", eventType: outbox.EventOrderCreated, payload: []byte(`{"a":1}`)},
		{name: "empty payload becomes object", aggType: outbox.AggregateInventory, aggID: "i-1", eventType: outbox.EventStockAdjusted},
		{name: "missing aggregate type", aggID: "o-1", eventType: outbox.EventOrderCreated, errIs: outbox.ErrAggregateTypeRequired},
		{name: "missing aggregate id", aggType: outbox.AggregateOrder, eventType: outbox.EventOrderCreated, errIs: outbox.ErrAggregateIDRequired},
		{name: "missing event type", aggType: outbox.AggregateOrder, aggID: "o-1", errIs: outbox.ErrEventTypeRequired},
		{name: "invalid json", aggType: outbox.AggregateOrder, aggID: "o-1", eventType: outbox.EventOrderCreated, payload: []byte("{"), errIs: outbox.ErrInvalidPayload},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := outbox.NewEntry(tc.aggType, tc.aggID, tc.eventType, tc.payload, now)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, outbox.StatusPending, e.Status)
			assert.Equal(t, now, e.AvailableAt)
			assert.Zero(t, e.Attempts)
			assert.NotEmpty(t, e.Payload)
		})
	}
}

func TestEntry_Claimable(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	stale := now.Add(-5 * time.Minute)

	e, err := outbox.NewEntry(outbox.AggregateOrder, "o-1", outbox.EventOrderConfirmed, nil, now)
	require.NoError(t, err)
	assert.True(t, e.Claimable(now, stale))

	e.MarkRetry(1, "queue down", now.Add(time.Second))
	assert.False(t, e.Claimable(now, stale), "retry delay not elapsed")
	assert.True(t, e.Claimable(now.Add(time.Second), stale))

	e.Claim(now)
	assert.False(t, e.Claimable(now, stale), "fresh claim belongs to another dispatcher")
	assert.True(t, e.Claimable(now.Add(6*time.Minute), now.Add(time.Minute)), "abandoned claim is recoverable")

	e.MarkProcessed(now)
	assert.False(t, e.Claimable(now.Add(time.Hour), now.Add(time.Hour)))
	require.NotNil(t, e.ProcessedAt)
}
