//go:build unit

package queue_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"order-fulfillment/internal/infra/queue"
	"order-fulfillment/internal/usecase/shared"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBroker keeps one buffered channel per topic, all on partition 0.
type fakeBroker struct {
	mu        sync.Mutex
	topics    map[string]chan kafka.Message
	offsets   map[string]int64
	committed map[string]int
	lastAcked map[string]int64
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{
		topics:    make(map[string]chan kafka.Message),
		offsets:   make(map[string]int64),
		committed: make(map[string]int),
		lastAcked: make(map[string]int64),
	}
}

func (b *fakeBroker) topic(name string) chan kafka.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.topics[name]
	if !ok {
		ch = make(chan kafka.Message, 64)
		b.topics[name] = ch
	}
	return ch
}

func (b *fakeBroker) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		b.mu.Lock()
		m.Offset = b.offsets[m.Topic]
		b.offsets[m.Topic]++
		b.mu.Unlock()
		b.topic(m.Topic) <- m
	}
	return nil
}

func (b *fakeBroker) Close() error { return nil }

func (b *fakeBroker) commits(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.committed[topic]
}

// acked returns the newest committed offset, or -1.
func (b *fakeBroker) acked(topic string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.committed[topic] == 0 {
		return -1
	}
	return b.lastAcked[topic]
}

type fakeReader struct {
	broker *fakeBroker
	topic  string
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.broker.topic(r.topic):
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.broker.mu.Lock()
	defer r.broker.mu.Unlock()
	r.broker.committed[r.topic] += len(msgs)
	r.broker.lastAcked[r.topic] = msgs[len(msgs)-1].Offset
	return nil
}

func (r *fakeReader) Close() error { return nil }

func newKafkaQueue(b *fakeBroker) *queue.KafkaQueue {
	return queue.NewKafkaQueueWith(b, func(topic string) queue.MessageReader {
		return &fakeReader{broker: b, topic: topic}
	}, 2, time.Millisecond, nil)
}

func TestKafkaQueue_RoundTrip(t *testing.T) {
	broker := newFakeBroker()
	q := newKafkaQueue(broker)

	got := make(chan shared.Job, 1)
	q.Register(shared.QueuePaymentProcessing, shared.JobPaymentEvent, func(_ context.Context, job shared.Job) error {
		got <- job
		return nil
	})
	require.NoError(t, q.Start(context.Background()))
	defer func() { require.NoError(t, q.Stop(context.Background())) }()

	require.NoError(t, q.Enqueue(context.Background(), shared.QueuePaymentProcessing, shared.JobPaymentEvent,
		[]byte(`{"paymentId":"pay_1"}`), shared.JobOptions{JobID: "entry-7", Attempts: 3}))

	select {
	case job := <-got:
		assert.Equal(t, "entry-7", job.ID)
		assert.Equal(t, 1, job.Attempt)
		assert.JSONEq(t, `{"paymentId":"pay_1"}`, string(job.Payload))
	case <-time.After(2 * time.Second):
		t.Fatal("job not delivered")
	}
	assert.Eventually(t, func() bool { return broker.commits(shared.QueuePaymentProcessing) == 1 }, time.Second, 5*time.Millisecond)
}

func TestKafkaQueue_RetryIsRepublished(t *testing.T) {
	broker := newFakeBroker()
	q := newKafkaQueue(broker)

	var mu sync.Mutex
	var attempts []int
	done := make(chan struct{})
	q.Register(shared.QueueInventoryManagement, shared.JobInventoryEvent, func(_ context.Context, job shared.Job) error {
		mu.Lock()
		defer mu.Unlock()
		attempts = append(attempts, job.Attempt)
		if job.Attempt < 2 {
			return errors.New("not yet")
		}
		close(done)
		return nil
	})
	require.NoError(t, q.Start(context.Background()))
	defer func() { require.NoError(t, q.Stop(context.Background())) }()

	require.NoError(t, q.Enqueue(context.Background(), shared.QueueInventoryManagement, shared.JobInventoryEvent,
		nil, shared.JobOptions{JobID: "entry-9", Attempts: 2}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("retry not delivered")
	}
	mu.Lock()
	assert.Equal(t, []int{1, 2}, attempts)
	mu.Unlock()
}

func TestKafkaQueue_DelayedJobDoesNotBlockReadyJobs(t *testing.T) {
	broker := newFakeBroker()
	q := newKafkaQueue(broker)

	type delivery struct {
		id string
		at time.Time
	}
	got := make(chan delivery, 2)
	q.Register(shared.QueueOrderProcessing, shared.JobProcessOrder, func(_ context.Context, job shared.Job) error {
		got <- delivery{id: job.ID, at: time.Now()}
		return nil
	})
	require.NoError(t, q.Start(context.Background()))
	defer func() { require.NoError(t, q.Stop(context.Background())) }()

	ctx := context.Background()
	enqueued := time.Now()
	require.NoError(t, q.Enqueue(ctx, shared.QueueOrderProcessing, shared.JobProcessOrder, nil,
		shared.JobOptions{JobID: "order:later", Delay: 300 * time.Millisecond}))
	require.NoError(t, q.Enqueue(ctx, shared.QueueOrderProcessing, shared.JobProcessOrder, nil,
		shared.JobOptions{JobID: "order:now"}))

	var first delivery
	select {
	case first = <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("ready job not delivered")
	}
	assert.Equal(t, "order:now", first.id)
	assert.Less(t, first.at.Sub(enqueued), 300*time.Millisecond)

	// The delayed message sits at the earlier offset, so nothing is committed yet.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(-1), broker.acked(shared.QueueOrderProcessing))

	select {
	case second := <-got:
		assert.Equal(t, "order:later", second.id)
		assert.GreaterOrEqual(t, second.at.Sub(enqueued), 300*time.Millisecond)
	case <-time.After(2 * time.Second):
		t.Fatal("delayed job not delivered")
	}
	assert.Eventually(t, func() bool { return broker.acked(shared.QueueOrderProcessing) == 1 }, time.Second, 5*time.Millisecond)
}
