//go:build unit

package outbox_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domoutbox "order-fulfillment/internal/domain/outbox"
	"order-fulfillment/internal/infra/memstore"
	"order-fulfillment/internal/infra/notification"
	"order-fulfillment/internal/pkg/clock"
	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/internal/usecase/outbox"
	"order-fulfillment/internal/usecase/shared"
	notificationmock "order-fulfillment/tests/mock/notification"
	sharedmock "order-fulfillment/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/mock/gomock"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func relayConfig() config.RelayConfig {
	cfg := config.NewTestConfig().Relay
	cfg.MaxAttempts = 3
	cfg.RetryBackoff = time.Second
	cfg.ClaimTimeout = time.Minute
	return cfg
}

func appendEntry(t *testing.T, store *memstore.Store, clk clock.Clock, aggType domoutbox.AggregateType, eventType string) *domoutbox.Entry {
	t.Helper()
	var e *domoutbox.Entry
	require.NoError(t, store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		e, err = outbox.NewAppender(clk).Append(ctx, tx, aggType, uuid.NewString(), eventType, map[string]string{"k": "v"})
		return err
	}))
	return e
}

func loadEntry(t *testing.T, store *memstore.Store, id uuid.UUID) *domoutbox.Entry {
	t.Helper()
	var e *domoutbox.Entry
	require.NoError(t, store.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		e, err = tx.Outbox().FindByID(ctx, id)
		return err
	}))
	return e
}

func TestRouteFor(t *testing.T) {
	testCases := []struct {
		aggType   domoutbox.AggregateType
		eventType string
		want      outbox.Route
	}{
		{domoutbox.AggregateOrder, domoutbox.EventOrderCreated, outbox.Route{Skip: true}},
		{domoutbox.AggregateOrder, domoutbox.EventOrderConfirmed, outbox.Route{Queue: shared.QueueNotifications, JobType: shared.JobSendOrderConfirmation}},
		{domoutbox.AggregateOrder, domoutbox.EventOrderFailed, outbox.Route{Queue: shared.QueueNotifications, JobType: shared.JobSendOrderFailure}},
		{domoutbox.AggregateOrder, domoutbox.EventOrderCancelled, outbox.Route{Queue: shared.QueueNotifications, JobType: shared.JobSendOrderCancellation}},
		{domoutbox.AggregateInventory, domoutbox.EventLowStockDetected, outbox.Route{Queue: shared.QueueInventoryManagement, JobType: shared.JobInventoryEvent}},
		{domoutbox.AggregatePayment, domoutbox.EventPaymentRefunded, outbox.Route{Queue: shared.QueuePaymentProcessing, JobType: shared.JobPaymentEvent}},
		{domoutbox.AggregateType("Shipment"), "Dispatched", outbox.Route{Queue: shared.QueueDefault, JobType: shared.JobGenericEvent}},
	}
	for _, tc := range testCases {
		t.Run(string(tc.aggType)+"/"+tc.eventType, func(t *testing.T) {
			assert.Equal(t, tc.want, outbox.RouteFor(tc.aggType, tc.eventType))
		})
	}
}

func TestRelay_DispatchBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("success: routed entries are enqueued by entry id and marked processed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := memstore.New()
		clk := clock.NewMockClock(t0)
		enq := sharedmock.NewMockEnqueuer(ctrl)
		relay := outbox.NewRelay(store, enq, clk, relayConfig(), noop.NewTracerProvider(), nil)

		created := appendEntry(t, store, clk, domoutbox.AggregateOrder, domoutbox.EventOrderCreated)
		clk.Add(time.Second)
		confirmed := appendEntry(t, store, clk, domoutbox.AggregateOrder, domoutbox.EventOrderConfirmed)

		enq.EXPECT().
			Enqueue(gomock.Any(), shared.QueueNotifications, shared.JobSendOrderConfirmation, gomock.Any(),
				gomock.Cond(func(o shared.JobOptions) bool { return o.JobID == confirmed.ID.String() && o.Attempts > 0 })).
			Return(nil)

		res, err := relay.DispatchBatch(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, outbox.DispatchResult{Claimed: 2, Dispatched: 1, Skipped: 1}, res)

		assert.Equal(t, domoutbox.StatusProcessed, loadEntry(t, store, created.ID).Status)
		got := loadEntry(t, store, confirmed.ID)
		assert.Equal(t, domoutbox.StatusProcessed, got.Status)
		require.NotNil(t, got.ProcessedAt)
	})

	t.Run("error: enqueue failure backs off then fails when exhausted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := memstore.New()
		clk := clock.NewMockClock(t0)
		enq := sharedmock.NewMockEnqueuer(ctrl)
		relay := outbox.NewRelay(store, enq, clk, relayConfig(), noop.NewTracerProvider(), nil)

		e := appendEntry(t, store, clk, domoutbox.AggregateInventory, domoutbox.EventStockAdjusted)
		enq.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("broker unavailable")).Times(3)

		res, err := relay.DispatchBatch(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Retried)
		got := loadEntry(t, store, e.ID)
		assert.Equal(t, domoutbox.StatusPending, got.Status)
		assert.Equal(t, 1, got.Attempts)
		require.NotNil(t, got.LastError)
		assert.Equal(t, t0.Add(time.Second), got.AvailableAt)

		// Not yet available.
		res, err = relay.DispatchBatch(ctx, 10)
		require.NoError(t, err)
		assert.Zero(t, res.Claimed)

		clk.Add(time.Second)
		res, err = relay.DispatchBatch(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Retried)
		assert.Equal(t, 2, loadEntry(t, store, e.ID).Attempts)

		clk.Add(2 * time.Second)
		res, err = relay.DispatchBatch(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Failed)
		got = loadEntry(t, store, e.ID)
		assert.Equal(t, domoutbox.StatusFailed, got.Status)
		assert.Equal(t, 3, got.Attempts)
	})

	t.Run("success: one failing entry does not block the rest", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := memstore.New()
		clk := clock.NewMockClock(t0)
		enq := sharedmock.NewMockEnqueuer(ctrl)
		relay := outbox.NewRelay(store, enq, clk, relayConfig(), noop.NewTracerProvider(), nil)

		appendEntry(t, store, clk, domoutbox.AggregatePayment, domoutbox.EventPaymentCaptured)
		clk.Add(time.Millisecond)
		ok := appendEntry(t, store, clk, domoutbox.AggregateInventory, domoutbox.EventLowStockDetected)

		enq.EXPECT().Enqueue(gomock.Any(), shared.QueuePaymentProcessing, gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("boom"))
		enq.EXPECT().Enqueue(gomock.Any(), shared.QueueInventoryManagement, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := relay.DispatchBatch(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Dispatched)
		assert.Equal(t, 1, res.Retried)
		assert.Equal(t, domoutbox.StatusProcessed, loadEntry(t, store, ok.ID).Status)
	})
}

// recordingQueue delivers every job synchronously and never deduplicates,
// so handler-level idempotency is what is under test.
type recordingQueue struct {
	mu       sync.Mutex
	handlers map[string]shared.JobHandler
	jobs     []shared.Job
}

func (q *recordingQueue) Register(queue, jobType string, h shared.JobHandler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.handlers == nil {
		q.handlers = make(map[string]shared.JobHandler)
	}
	q.handlers[queue+"/"+jobType] = h
}
func (q *recordingQueue) Start(context.Context) error { return nil }
func (q *recordingQueue) Stop(context.Context) error  { return nil }

func (q *recordingQueue) Enqueue(ctx context.Context, queue, jobType string, payload []byte, opts shared.JobOptions) error {
	job := shared.Job{ID: opts.JobID, Queue: queue, Type: jobType, Payload: payload, Attempt: 1}
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	h := q.handlers[queue+"/"+jobType]
	q.mu.Unlock()
	return h(ctx, job)
}

func TestRelay_CrashAfterEnqueueIsRedeliveredAndDeduplicated(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := memstore.New()
	clk := clock.NewMockClock(t0)
	cfg := relayConfig()

	sender := notificationmock.NewMockSender(ctrl)
	sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	q := &recordingQueue{}
	notification.NewHandlers(store, sender, clk, nil).Register(q)
	relay := outbox.NewRelay(store, q, clk, cfg, noop.NewTracerProvider(), nil)

	e := appendEntry(t, store, clk, domoutbox.AggregateOrder, domoutbox.EventOrderFailed)

	// First dispatcher claims and enqueues, then dies before marking the entry.
	require.NoError(t, store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		claimed, err := tx.Outbox().ClaimBatch(ctx, 10, clk.Now(), clk.Now().Add(-cfg.ClaimTimeout))
		require.Len(t, claimed, 1)
		return err
	}))
	require.NoError(t, q.Enqueue(ctx, shared.QueueNotifications, shared.JobSendOrderFailure,
		mustMessage(t, e), shared.JobOptions{JobID: e.ID.String()}))

	// While the claim is fresh nobody else picks it up.
	res, err := relay.DispatchBatch(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, res.Claimed)

	clk.Add(cfg.ClaimTimeout + time.Second)
	res, err = relay.DispatchBatch(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Dispatched)

	require.Len(t, q.jobs, 2)
	assert.Equal(t, q.jobs[0].ID, q.jobs[1].ID, "redelivery reuses the entry id as job id")
	assert.Equal(t, domoutbox.StatusProcessed, loadEntry(t, store, e.ID).Status)
}

func mustMessage(t *testing.T, e *domoutbox.Entry) []byte {
	t.Helper()
	body, err := jsonMarshal(outbox.Message{
		EntryID: e.ID, AggregateType: string(e.AggregateType), AggregateID: e.AggregateID,
		EventType: e.EventType, Payload: e.Payload, OccurredAt: e.CreatedAt,
	})
	require.NoError(t, err)
	return body
}

func TestRelay_StartStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := memstore.New()
	clk := clock.NewMockClock(t0)
	cfg := relayConfig()
	cfg.Enabled = true
	cfg.PollInterval = 5 * time.Millisecond

	enq := sharedmock.NewMockEnqueuer(ctrl)
	enq.EXPECT().Enqueue(gomock.Any(), shared.QueuePaymentProcessing, shared.JobPaymentEvent, gomock.Any(), gomock.Any()).Return(nil)

	e := appendEntry(t, store, clk, domoutbox.AggregatePayment, domoutbox.EventPaymentCaptured)
	relay := outbox.NewRelay(store, enq, clk, cfg, noop.NewTracerProvider(), nil)
	relay.Start()

	assert.Eventually(t, func() bool {
		return loadEntry(t, store, e.ID).Status == domoutbox.StatusProcessed
	}, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, relay.Stop(ctx))
}
