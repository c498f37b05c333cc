package robot

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/toyrobot/internal/logging"
	"github.com/aretw0/toyrobot/pkg/domain"
	"github.com/aretw0/toyrobot/pkg/ports"
)

// ErrQueueClosed is returned when work is submitted after Close.
var ErrQueueClosed = errors.New("persistence queue closed")

// DefaultQueueSize is the number of pending writes buffered before Enqueue blocks.
const DefaultQueueSize = 64

// DefaultCallTimeout bounds a single recorder call made by the worker.
const DefaultCallTimeout = 5 * time.Second

// ResultFunc observes the outcome of each write.
type ResultFunc func(pos domain.Position, rec domain.Record, err error)

type job struct {
	pos     domain.Position
	barrier chan struct{}
}

// Queue forwards positions to a recorder strictly in submission order.
type Queue struct {
	recorder ports.PositionRecorder
	logger   *slog.Logger
	timeout  time.Duration
	onResult ResultFunc

	mu     sync.RWMutex
	closed bool
	jobs   chan job
	done   chan struct{}

	written  atomic.Int64
	failures atomic.Int64
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithQueueLogger sets the logger used for failed writes.
func WithQueueLogger(logger *slog.Logger) QueueOption {
	return func(q *Queue) {
		q.logger = logger
	}
}

// WithCallTimeout bounds each recorder call.
func WithCallTimeout(d time.Duration) QueueOption {
	return func(q *Queue) {
		q.timeout = d
	}
}

// WithResultFunc registers an observer called by the worker after every write.
func WithResultFunc(fn ResultFunc) QueueOption {
	return func(q *Queue) {
		q.onResult = fn
	}
}

// NewQueue starts the worker goroutine. Call Close to stop it.
func NewQueue(recorder ports.PositionRecorder, size int, opts ...QueueOption) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	q := &Queue{
		recorder: recorder,
		logger:   logging.NewNop(),
		timeout:  DefaultCallTimeout,
		jobs:     make(chan job, size),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	go q.run()
	return q
}

// Enqueue submits a position for recording. It waits for buffer space until ctx is done.
func (q *Queue) Enqueue(ctx context.Context, pos domain.Position) error {
	return q.submit(ctx, job{pos: pos})
}

// Flush blocks until every position enqueued before the call has been attempted.
func (q *Queue) Flush(ctx context.Context) error {
	barrier := make(chan struct{})
	if err := q.submit(ctx, job{barrier: barrier}); err != nil {
		return err
	}
	select {
	case <-barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains the pending writes and stops the worker. It is safe to call more than once.
func (q *Queue) Close() error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	<-q.done
	return nil
}

// Written is the number of positions successfully recorded.
func (q *Queue) Written() int64 {
	return q.written.Load()
}

// Failures is the number of writes the recorder rejected or could not receive.
func (q *Queue) Failures() int64 {
	return q.failures.Load()
}

func (q *Queue) submit(ctx context.Context, j job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- j:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) run() {
	defer close(q.done)
	for j := range q.jobs {
		if j.barrier != nil {
			close(j.barrier)
			continue
		}
		q.write(j.pos)
	}
}

func (q *Queue) write(pos domain.Position) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	rec, err := q.recorder.Record(ctx, pos)
	if err != nil {
		q.failures.Add(1)
		q.logger.Warn("Failed to record robot position",
			"position", pos.String(),
			"error", err,
		)
	} else {
		q.written.Add(1)
		q.logger.Debug("Robot position recorded", "id", rec.ID, "position", pos.String())
	}

	if q.onResult != nil {
		q.onResult(pos, rec, err)
	}
}
