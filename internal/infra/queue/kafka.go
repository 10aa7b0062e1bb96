package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/internal/pkg/errs"
	"order-fulfillment/internal/usecase/shared"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	headerJobType = "job-type"
	// maxUnsettled bounds fetched messages per topic that are waiting, running
	// or blocked behind an earlier offset.
	maxUnsettled = 256
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ReaderFactory opens a consumer-group reader for one topic.
type ReaderFactory func(topic string) MessageReader

// envelope is the message value. Kafka has no delayed delivery, so the
// consumer parks a message until NotBefore while it keeps fetching.
type envelope struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Payload   []byte    `json:"payload"`
	Attempt   int       `json:"attempt"`
	Attempts  int       `json:"attempts"`
	BackoffMS int64     `json:"backoff_ms"`
	NotBefore time.Time `json:"not_before"`
}

// KafkaQueue maps each queue name to a topic. Job ids become message keys,
// which keeps one order's jobs on one partition; duplicate ids are not
// filtered here, so handlers must be idempotent. Each topic runs its handlers
// on a pool of concurrency workers.
type KafkaQueue struct {
	writer         MessageWriter
	newReader      ReaderFactory
	concurrency    int
	defaultBackoff time.Duration
	logger         *slog.Logger

	mu       sync.Mutex
	handlers map[string]map[string]shared.JobHandler
	readers  []MessageReader
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewKafkaQueue(cfg config.QueueConfig, logger *slog.Logger) *KafkaQueue {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	factory := func(topic string) MessageReader {
		return kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.KafkaBrokers,
			GroupID: cfg.KafkaGroupID,
			Topic:   topic,
		})
	}
	return NewKafkaQueueWith(writer, factory, cfg.Concurrency, cfg.DefaultBackoff, logger)
}

func NewKafkaQueueWith(writer MessageWriter, newReader ReaderFactory, concurrency int, defaultBackoff time.Duration, logger *slog.Logger) *KafkaQueue {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaQueue{
		writer:         writer,
		newReader:      newReader,
		concurrency:    concurrency,
		defaultBackoff: defaultBackoff,
		logger:         logger,
		handlers:       make(map[string]map[string]shared.JobHandler),
	}
}

func (q *KafkaQueue) Register(queue, jobType string, h shared.JobHandler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.handlers[queue] == nil {
		q.handlers[queue] = make(map[string]shared.JobHandler)
	}
	q.handlers[queue][jobType] = h
}

func (q *KafkaQueue) Enqueue(ctx context.Context, queue, jobType string, payload []byte, opts shared.JobOptions) error {
	id := opts.JobID
	if id == "" {
		id = uuid.NewString()
	}
	attempts := opts.Attempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = q.defaultBackoff
	}
	env := envelope{
		ID:        id,
		Type:      jobType,
		Payload:   payload,
		Attempt:   1,
		Attempts:  attempts,
		BackoffMS: backoff.Milliseconds(),
	}
	if opts.Delay > 0 {
		env.NotBefore = time.Now().Add(opts.Delay).UTC()
	}
	return q.publish(ctx, queue, env, injectTrace(ctx))
}

func (q *KafkaQueue) publish(ctx context.Context, topic string, env envelope, trace map[string]string) error {
	value, err := json.Marshal(env)
	if err != nil {
		return errs.Wrap(err, "failed to encode job")
	}
	headers := []kafka.Header{{Key: headerJobType, Value: []byte(env.Type)}}
	for k, v := range trace {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	if err := q.writer.WriteMessages(ctx, kafka.Message{
		Topic:   topic,
		Key:     []byte(env.ID),
		Value:   value,
		Headers: headers,
	}); err != nil {
		return errs.WithClass(errs.Wrapf(err, "failed to publish job to %s", topic), errs.ClassRetriable)
	}
	return nil
}

func (q *KafkaQueue) Start(_ context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel

	for topic := range q.handlers {
		reader := q.newReader(topic)
		q.readers = append(q.readers, reader)
		q.wg.Add(1)
		go q.consume(ctx, topic, reader)
	}
	q.logger.Info("kafka queue started", "topics", len(q.readers))
	return nil
}

func (q *KafkaQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	cancel := q.cancel
	q.cancel = nil
	readers := q.readers
	q.readers = nil
	q.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	var closeErr error
	for _, r := range readers {
		closeErr = errors.Join(closeErr, r.Close())
	}
	closeErr = errors.Join(closeErr, q.writer.Close())
	q.logger.Info("kafka queue stopped")
	return closeErr
}

// consume fetches without waiting on handlers. A message runs once it is due
// and a worker is free; commits follow the partition's fetch order.
func (q *KafkaQueue) consume(ctx context.Context, topic string, reader MessageReader) {
	defer q.wg.Done()
	var inflight sync.WaitGroup
	defer inflight.Wait()

	commits := newCommitTracker()
	workers := make(chan struct{}, q.concurrency)
	unsettled := make(chan struct{}, maxUnsettled)
	for {
		select {
		case unsettled <- struct{}{}:
		case <-ctx.Done():
			return
		}
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			<-unsettled
			if ctx.Err() != nil {
				return
			}
			q.logger.Warn("kafka fetch failed", "topic", topic, "error", err.Error())
			continue
		}

		tracked := commits.track(msg)
		inflight.Add(1)
		go func() {
			defer inflight.Done()
			defer func() { <-unsettled }()
			if !q.handle(ctx, topic, msg, workers) {
				return
			}
			commits.settle(tracked, func(last kafka.Message) {
				if err := reader.CommitMessages(ctx, last); err != nil && ctx.Err() == nil {
					q.logger.Warn("kafka commit failed", "topic", topic, "offset", last.Offset, "error", err.Error())
				}
			})
		}()
	}
}

// handle returns false only when ctx ended before the message was settled;
// the message then stays uncommitted and is redelivered.
func (q *KafkaQueue) handle(ctx context.Context, topic string, msg kafka.Message, workers chan struct{}) bool {
	var env envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		q.logger.Error("dropping undecodable job", "topic", topic, "offset", msg.Offset, "error", err.Error())
		return true
	}

	if wait := time.Until(env.NotBefore); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
	select {
	case workers <- struct{}{}:
	case <-ctx.Done():
		return false
	}
	defer func() { <-workers }()

	trace := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		if h.Key != headerJobType {
			trace[h.Key] = string(h.Value)
		}
	}

	q.mu.Lock()
	h := q.handlers[topic][env.Type]
	q.mu.Unlock()
	if h == nil {
		q.logger.Error("no handler registered", "topic", topic, "job_type", env.Type, "job_id", env.ID)
		return true
	}

	job := shared.Job{ID: env.ID, Queue: topic, Type: env.Type, Payload: env.Payload, Attempt: env.Attempt, Headers: trace}
	err := safeHandle(extractTrace(ctx, trace), h, job)
	if err == nil {
		return true
	}

	if env.Attempt >= env.Attempts || errs.IsPermanent(err) {
		q.logger.Error("job failed permanently",
			"queue", topic, "job_type", env.Type, "job_id", env.ID, "attempt", env.Attempt, "error", err.Error())
		return true
	}
	delay := backoffFor(time.Duration(env.BackoffMS)*time.Millisecond, env.Attempt)
	q.logger.Warn("job failed, retrying",
		"queue", topic, "job_type", env.Type, "job_id", env.ID,
		"attempt", env.Attempt, "retry_in_ms", delay.Milliseconds(), "error", err.Error())
	env.Attempt++
	env.NotBefore = time.Now().Add(delay).UTC()
	// Committing before the retry is published would lose the job.
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 0
	pubErr := backoff.Retry(func() error {
		return q.publish(ctx, topic, env, trace)
	}, backoff.WithContext(policy, ctx))
	if pubErr != nil {
		q.logger.Error("failed to schedule retry", "queue", topic, "job_id", env.ID, "error", pubErr.Error())
		return false
	}
	return true
}

type trackedMessage struct {
	msg     kafka.Message
	settled bool
}

// commitTracker orders commits per partition: an offset is committed only
// once every message fetched before it on the same partition has settled.
type commitTracker struct {
	mu         sync.Mutex
	partitions map[int][]*trackedMessage
}

func newCommitTracker() *commitTracker {
	return &commitTracker{partitions: make(map[int][]*trackedMessage)}
}

func (c *commitTracker) track(msg kafka.Message) *trackedMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &trackedMessage{msg: msg}
	c.partitions[msg.Partition] = append(c.partitions[msg.Partition], t)
	return t
}

// settle marks t done and, if that completes a prefix of the partition,
// commits the newest message of the prefix. Commits run under the lock so
// they never go backwards.
func (c *commitTracker) settle(t *trackedMessage, commit func(last kafka.Message)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t.settled = true
	pending := c.partitions[t.msg.Partition]
	n := 0
	for n < len(pending) && pending[n].settled {
		n++
	}
	if n == 0 {
		return
	}
	last := pending[n-1].msg
	c.partitions[t.msg.Partition] = pending[n:]
	commit(last)
}
