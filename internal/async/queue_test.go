package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestWorkerQueueProcessesAllJobs(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}

	q := NewWorkerQueue(3, 8, func(_ context.Context, job Job) error {
		mu.Lock()
		seen[job.Path] = true
		mu.Unlock()
		return nil
	}, nil)

	ctx := context.Background()
	paths := []string{"/inbox/a.pdf", "/inbox/b.pdf", "/inbox/c.pdf", "/inbox/d.pdf"}
	for _, p := range paths {
		if err := q.Enqueue(ctx, Job{Path: p}); err != nil {
			t.Fatalf("Enqueue(%s): %v", p, err)
		}
	}

	sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	q.Shutdown(sctx)

	mu.Lock()
	defer mu.Unlock()
	for _, p := range paths {
		if !seen[p] {
			t.Errorf("job %s never processed", p)
		}
	}
}

func TestWorkerQueueHandlerErrorDoesNotStopQueue(t *testing.T) {
	var mu sync.Mutex
	processed := 0

	q := NewWorkerQueue(1, 4, func(_ context.Context, job Job) error {
		mu.Lock()
		processed++
		mu.Unlock()
		if job.Path == "/inbox/bad.pdf" {
			return errors.New("unreadable document")
		}
		return nil
	}, nil)

	ctx := context.Background()
	for _, p := range []string{"/inbox/bad.pdf", "/inbox/good.pdf"} {
		if err := q.Enqueue(ctx, Job{Path: p}); err != nil {
			t.Fatalf("Enqueue(%s): %v", p, err)
		}
	}

	sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	q.Shutdown(sctx)

	mu.Lock()
	defer mu.Unlock()
	if processed != 2 {
		t.Errorf("processed = %d, want 2: a failed job must not stall the rest", processed)
	}
}

func TestWorkerQueueEnqueueAfterShutdown(t *testing.T) {
	q := NewWorkerQueue(1, 1, func(context.Context, Job) error { return nil }, nil)

	sctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(sctx)

	if err := q.Enqueue(context.Background(), Job{Path: "/inbox/late.pdf"}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("err = %v, want ErrQueueClosed", err)
	}
}

// Enqueue racing Shutdown must never send on the closed channel; run with
// -race to catch regressions.
func TestWorkerQueueEnqueueDuringShutdown(t *testing.T) {
	q := NewWorkerQueue(2, 4, func(context.Context, Job) error { return nil }, nil)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if err := q.Enqueue(ctx, Job{Path: "/inbox/a.pdf"}); errors.Is(err, ErrQueueClosed) {
					return
				}
			}
		}()
	}

	time.Sleep(5 * time.Millisecond)
	sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	q.Shutdown(sctx)
	wg.Wait()
}

func TestWorkerQueueAssignsTraceIDs(t *testing.T) {
	var mu sync.Mutex
	var trace string

	q := NewWorkerQueue(1, 1, func(_ context.Context, job Job) error {
		mu.Lock()
		trace = job.TraceID
		mu.Unlock()
		return nil
	}, nil)

	if err := q.Enqueue(context.Background(), Job{Path: "/inbox/a.pdf"}); err != nil {
		t.Fatal(err)
	}
	sctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(sctx)

	mu.Lock()
	defer mu.Unlock()
	if trace == "" {
		t.Error("job ran without an assigned trace id")
	}
}
