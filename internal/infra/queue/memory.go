package queue

import (
	"container/heap"
	"context"
	"log/slog"
	"sync"
	"time"

	"order-fulfillment/internal/pkg/errs"
	"order-fulfillment/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrQueueStopped = errs.NewClassed("queue is stopped", errs.ClassRetriable)

type pendingJob struct {
	job      shared.Job
	attempts int
	backoff  time.Duration
	priority int
	readyAt  time.Time
	seq      uint64
	dedupe   bool
}

type jobHeap []*pendingJob

func (h jobHeap) Len() int { return len(h) }
func (h jobHeap) Less(i, j int) bool {
	if !h[i].readyAt.Equal(h[j].readyAt) {
		return h[i].readyAt.Before(h[j].readyAt)
	}
	// Lower number runs first, as in Bull.
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}
func (h jobHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *jobHeap) Push(x any)   { *h = append(*h, x.(*pendingJob)) }
func (h *jobHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// MemoryQueue is an in-process Enqueuer and Worker: a delay-ordered heap
// drained by a fixed pool of goroutines. A job id is held while its job is
// queued or running, so re-enqueueing it then is a no-op; once the job
// succeeds or fails for good the id can be enqueued again.
type MemoryQueue struct {
	concurrency    int
	defaultBackoff time.Duration
	logger         *slog.Logger

	mu       sync.Mutex
	handlers map[string]shared.JobHandler
	pending  jobHeap
	seen     map[string]struct{}
	failed   []shared.Job
	inflight int
	seq      uint64
	running  bool
	wake     chan struct{}
	idle     chan struct{}
	stop     chan struct{}
	wg       sync.WaitGroup
}

func NewMemoryQueue(concurrency int, defaultBackoff time.Duration, logger *slog.Logger) *MemoryQueue {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryQueue{
		concurrency:    concurrency,
		defaultBackoff: defaultBackoff,
		logger:         logger,
		handlers:       make(map[string]shared.JobHandler),
		seen:           make(map[string]struct{}),
		wake:           make(chan struct{}, 1),
	}
}

func handlerKey(queue, jobType string) string { return queue + "/" + jobType }

func (q *MemoryQueue) Register(queue, jobType string, h shared.JobHandler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[handlerKey(queue, jobType)] = h
}

func (q *MemoryQueue) Enqueue(ctx context.Context, queue, jobType string, payload []byte, opts shared.JobOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	if opts.JobID != "" {
		if _, dup := q.seen[opts.JobID]; dup {
			q.logger.Debug("duplicate job id ignored", "queue", queue, "job_id", opts.JobID)
			return nil
		}
		q.seen[opts.JobID] = struct{}{}
	}

	attempts := opts.Attempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = q.defaultBackoff
	}

	q.seq++
	id := opts.JobID
	if id == "" {
		id = uuid.NewString()
	}
	heap.Push(&q.pending, &pendingJob{
		job: shared.Job{
			ID:      id,
			Queue:   queue,
			Type:    jobType,
			Payload: append([]byte(nil), payload...),
			Attempt: 1,
			Headers: injectTrace(ctx),
		},
		attempts: attempts,
		backoff:  backoff,
		priority: opts.Priority,
		readyAt:  time.Now().Add(opts.Delay),
		seq:      q.seq,
		dedupe:   opts.JobID != "",
	})
	q.signal()
	return nil
}

func (q *MemoryQueue) Start(_ context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return nil
	}
	q.running = true
	q.stop = make(chan struct{})
	for i := 0; i < q.concurrency; i++ {
		q.wg.Add(1)
		go q.work(q.stop)
	}
	q.logger.Info("memory queue started", "concurrency", q.concurrency)
	return nil
}

// Stop lets in-flight handlers finish; queued jobs stay queued.
func (q *MemoryQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return nil
	}
	q.running = false
	close(q.stop)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		q.logger.Info("memory queue stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitIdle blocks until nothing is queued or running.
func (q *MemoryQueue) WaitIdle(ctx context.Context) error {
	for {
		q.mu.Lock()
		if q.pending.Len() == 0 && q.inflight == 0 {
			q.mu.Unlock()
			return nil
		}
		if q.idle == nil {
			q.idle = make(chan struct{})
		}
		idle := q.idle
		q.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Failed returns jobs that exhausted their attempts or had no handler.
func (q *MemoryQueue) Failed() []shared.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]shared.Job(nil), q.failed...)
}

func (q *MemoryQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *MemoryQueue) notifyIdleLocked() {
	if q.pending.Len() == 0 && q.inflight == 0 && q.idle != nil {
		close(q.idle)
		q.idle = nil
	}
}

func (q *MemoryQueue) work(stop <-chan struct{}) {
	defer q.wg.Done()
	for {
		pj, wait := q.next()
		if pj == nil {
			timer := time.NewTimer(wait)
			select {
			case <-stop:
				timer.Stop()
				return
			case <-q.wake:
			case <-timer.C:
			}
			timer.Stop()
			continue
		}

		select {
		case <-stop:
			q.requeue(pj)
			return
		default:
		}
		q.run(pj)
	}
}

// next pops a ready job, or reports how long to sleep before one is due.
func (q *MemoryQueue) next() (*pendingJob, time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending.Len() == 0 {
		return nil, time.Second
	}
	head := q.pending[0]
	if d := time.Until(head.readyAt); d > 0 {
		return nil, d
	}
	heap.Pop(&q.pending)
	q.inflight++
	// Other workers may also have something due.
	if q.pending.Len() > 0 {
		q.signal()
	}
	return head, 0
}

func (q *MemoryQueue) requeue(pj *pendingJob) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.inflight--
	heap.Push(&q.pending, pj)
}

func (q *MemoryQueue) run(pj *pendingJob) {
	q.mu.Lock()
	h := q.handlers[handlerKey(pj.job.Queue, pj.job.Type)]
	q.mu.Unlock()

	var err error
	if h == nil {
		err = errs.New("no handler registered")
		pj.attempts = pj.job.Attempt
	} else {
		ctx := extractTrace(context.Background(), pj.job.Headers)
		err = safeHandle(ctx, h, pj.job)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.inflight--
	defer q.notifyIdleLocked()

	if err == nil {
		q.releaseIDLocked(pj)
		return
	}
	// Permanent failures are not retried.
	if pj.job.Attempt < pj.attempts && !errs.IsPermanent(err) {
		delay := backoffFor(pj.backoff, pj.job.Attempt)
		q.logger.Warn("job failed, retrying",
			"queue", pj.job.Queue, "job_type", pj.job.Type, "job_id", pj.job.ID,
			"attempt", pj.job.Attempt, "retry_in_ms", delay.Milliseconds(), "error", err.Error())
		pj.job.Attempt++
		pj.readyAt = time.Now().Add(delay)
		q.seq++
		pj.seq = q.seq
		heap.Push(&q.pending, pj)
		q.signal()
		return
	}
	q.logger.Error("job failed permanently",
		"queue", pj.job.Queue, "job_type", pj.job.Type, "job_id", pj.job.ID,
		"attempt", pj.job.Attempt, "error", err.Error())
	q.failed = append(q.failed, pj.job)
	q.releaseIDLocked(pj)
}

func (q *MemoryQueue) releaseIDLocked(pj *pendingJob) {
	if pj.dedupe {
		delete(q.seen, pj.job.ID)
	}
}

func safeHandle(ctx context.Context, h shared.JobHandler, job shared.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.New("job handler panicked")
		}
	}()
	return h(ctx, job)
}
