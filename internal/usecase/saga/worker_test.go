//go:build unit

package saga_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"order-fulfillment/internal/domain/order"
	"order-fulfillment/internal/domain/payment"
	"order-fulfillment/internal/infra/queue"
	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/internal/pkg/errs"
	"order-fulfillment/internal/usecase/saga"
	"order-fulfillment/internal/usecase/shared"
	paymentmock "order-fulfillment/tests/mock/payment"
	sagamock "order-fulfillment/tests/mock/saga"
	sharedmock "order-fulfillment/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func processJob(t *testing.T, id uuid.UUID) shared.Job {
	t.Helper()
	body, err := json.Marshal(saga.ProcessOrderPayload{OrderID: id})
	require.NoError(t, err)
	return shared.Job{ID: saga.ProcessOrderJobID(id, 0), Queue: shared.QueueOrderProcessing, Type: shared.JobProcessOrder, Payload: body, Attempt: 1}
}

func TestProcessOrderJobID(t *testing.T) {
	id := uuid.MustParse("7f1c1a52-3f0e-4c55-9a43-2a4a8e1c9d10")
	assert.Equal(t, "order:7f1c1a52-3f0e-4c55-9a43-2a4a8e1c9d10", saga.ProcessOrderJobID(id, 0))
	assert.Equal(t, "order:7f1c1a52-3f0e-4c55-9a43-2a4a8e1c9d10:2", saga.ProcessOrderJobID(id, 2))
}

func TestWorker_Handle(t *testing.T) {
	ctx := context.Background()
	cfg := config.NewTestConfig().Saga
	orderID := uuid.New()

	testCases := []struct {
		name      string
		job       func(t *testing.T) shared.Job
		setup     func(s *sagamock.MockOrderSaga, q *sharedmock.MockEnqueuer)
		wantErr   bool
		wantClass errs.Class
	}{
		{
			name: "success: settled order",
			job:  func(t *testing.T) shared.Job { return processJob(t, orderID) },
			setup: func(s *sagamock.MockOrderSaga, _ *sharedmock.MockEnqueuer) {
				s.EXPECT().Run(gomock.Any(), orderID).Return(nil)
			},
		},
		{
			name: "success: requeue schedules the next round with its delay",
			job:  func(t *testing.T) shared.Job { return processJob(t, orderID) },
			setup: func(s *sagamock.MockOrderSaga, q *sharedmock.MockEnqueuer) {
				s.EXPECT().Run(gomock.Any(), orderID).Return(&saga.RequeueError{OrderID: orderID, Round: 2, Delay: 30 * time.Second})
				q.EXPECT().Enqueue(gomock.Any(), shared.QueueOrderProcessing, shared.JobProcessOrder, gomock.Any(),
					gomock.Cond(func(o shared.JobOptions) bool {
						return o.JobID == saga.ProcessOrderJobID(orderID, 2) && o.Delay == 30*time.Second && o.Attempts == cfg.ProcessOrderAttempts
					})).Return(nil)
			},
		},
		{
			name: "error: requeue that cannot be scheduled is returned for a retry",
			job:  func(t *testing.T) shared.Job { return processJob(t, orderID) },
			setup: func(s *sagamock.MockOrderSaga, q *sharedmock.MockEnqueuer) {
				s.EXPECT().Run(gomock.Any(), orderID).Return(&saga.RequeueError{OrderID: orderID, Round: 1})
				q.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errs.New("broker down"))
			},
			wantErr:   true,
			wantClass: errs.ClassUnknown,
		},
		{
			name: "error: unknown order is not retried",
			job:  func(t *testing.T) shared.Job { return processJob(t, orderID) },
			setup: func(s *sagamock.MockOrderSaga, _ *sharedmock.MockEnqueuer) {
				s.EXPECT().Run(gomock.Any(), orderID).Return(errs.Wrap(saga.ErrOrderNotFound, "gone"))
			},
			wantErr:   true,
			wantClass: errs.ClassPermanent,
		},
		{
			name:      "error: malformed payload",
			job:       func(*testing.T) shared.Job { return shared.Job{Payload: []byte("{")} },
			wantErr:   true,
			wantClass: errs.ClassPermanent,
		},
		{
			name: "error: transient saga failure is retried by the queue",
			job:  func(t *testing.T) shared.Job { return processJob(t, orderID) },
			setup: func(s *sagamock.MockOrderSaga, _ *sharedmock.MockEnqueuer) {
				s.EXPECT().Run(gomock.Any(), orderID).Return(errs.New("connection reset"))
			},
			wantErr:   true,
			wantClass: errs.ClassUnknown,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			s := sagamock.NewMockOrderSaga(ctrl)
			q := sharedmock.NewMockEnqueuer(ctrl)
			if tc.setup != nil {
				tc.setup(s, q)
			}
			w := saga.NewWorker(s, saga.NewScheduler(q, cfg), nil)

			err := w.Handle(ctx, tc.job(t))
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, tc.wantClass, errs.ClassOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func runQueue(t *testing.T, cfg config.Config) *queue.MemoryQueue {
	t.Helper()
	q := queue.NewMemoryQueue(cfg.Queue.Concurrency, cfg.Queue.DefaultBackoff, nil)
	require.NoError(t, q.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, q.Stop(ctx))
	})
	return q
}

func TestWorker_DrivesOrderThroughQueue(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	e := newEnv(t, nil)
	rec := e.stock(t, 10)
	o := e.placeOrder(t, line{rec, 2, "15.00"})

	gw := paymentmock.NewMockGateway(ctrl)
	gomock.InOrder(
		gw.EXPECT().ProcessPayment(gomock.Any(), gomock.Any()).Return(nil, payment.ErrTimeout).Times(e.cfg.Saga.RetryMaxAttempts),
		gw.EXPECT().ProcessPayment(gomock.Any(), gomock.Any()).Return(&payment.Result{PaymentID: "pay_q", Status: payment.StatusCaptured}, nil),
	)

	q := runQueue(t, e.cfg)
	scheduler := saga.NewScheduler(q, e.cfg.Saga)
	saga.NewWorker(e.orchestrator(gw), scheduler, nil).Register(q)

	require.NoError(t, scheduler.Schedule(ctx, o.ID(), 0, 0))
	// A redelivered first run is dropped by job id.
	require.NoError(t, scheduler.Schedule(ctx, o.ID(), 0, 0))

	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, q.WaitIdle(waitCtx))

	got := e.order(t, o.ID())
	assert.Equal(t, order.StatusConfirmed, got.Status())
	assert.Equal(t, 2, got.PaymentRounds())
	assert.Equal(t, 8, e.record(t, rec.ID()).PhysicalStock())
	assert.Empty(t, q.Failed())
}
