// Package async provides a bounded worker queue for inbox ingestion so a
// burst of dropped invoices does not serialize behind a single parse.
package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Job is the smallest useful unit. Extend as needed later (retry, priority).
type Job struct {
	Path        string
	SubmittedAt time.Time
	TraceID     string
}

// Handler processes one queued document.
type Handler func(ctx context.Context, job Job) error

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

var ErrQueueClosed = errors.New("queue closed")

// WorkerQueue fans jobs out to a fixed set of workers. Handler errors are
// logged, not returned: one bad document must not stop the queue.
type WorkerQueue struct {
	jobs    chan Job
	handler Handler
	logger  *slog.Logger

	wg       sync.WaitGroup
	closeMu  sync.RWMutex
	closed   bool
	baseCtx  context.Context
	baseStop context.CancelFunc
}

func NewWorkerQueue(workers, depth int, handler Handler, logger *slog.Logger) *WorkerQueue {
	if workers < 1 {
		workers = 1
	}
	if depth < 1 {
		depth = 64
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, stop := context.WithCancel(context.Background())
	q := &WorkerQueue{
		jobs:     make(chan Job, depth),
		handler:  handler,
		logger:   logger,
		baseCtx:  ctx,
		baseStop: stop,
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

func (q *WorkerQueue) worker() {
	defer q.wg.Done()
	for job := range q.jobs {
		start := time.Now()
		if err := q.handler(q.baseCtx, job); err != nil {
			q.logger.Error("queue.job.failed",
				"trace_id", job.TraceID,
				"path", job.Path,
				"error", err)
			continue
		}
		q.logger.Info("queue.job.ok",
			"trace_id", job.TraceID,
			"path", job.Path,
			"elapsed_ms", time.Since(start).Milliseconds())
	}
}

// Enqueue submits a job, blocking while the queue is full. A zero TraceID
// is assigned on entry.
func (q *WorkerQueue) Enqueue(ctx context.Context, job Job) error {
	// The read lock is held across the send so Shutdown cannot close the
	// channel between the closed check and the send.
	q.closeMu.RLock()
	defer q.closeMu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	if job.TraceID == "" {
		job.TraceID = uuid.NewString()
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now().UTC()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case q.jobs <- job:
		return nil
	}
}

// Shutdown stops intake and waits for in-flight jobs, up to ctx's deadline.
func (q *WorkerQueue) Shutdown(ctx context.Context) {
	q.closeMu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.closeMu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		q.baseStop()
		<-done
	}
}
