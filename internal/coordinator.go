package internal

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
	"golang.org/x/sync/semaphore"
)

// Coordinator decides how route resolution of concurrent requests interleaves.
// Do runs fn and returns nil, or returns an error without running fn.
type Coordinator interface {
	Do(ctx context.Context, fn func()) error
}

// MutexCoordinator runs one fn at a time process-wide.
type MutexCoordinator struct {
	mu sync.Mutex
}

func NewMutexCoordinator() *MutexCoordinator {
	return &MutexCoordinator{}
}

func (c *MutexCoordinator) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
	return nil
}

// NoopCoordinator runs fn on the calling goroutine without synchronization.
// Handlers must be safe for concurrent use.
type NoopCoordinator struct{}

func (NoopCoordinator) Do(_ context.Context, fn func()) error {
	fn()
	return nil
}

// SemaphoreCoordinator admits at most n concurrent fn calls.
type SemaphoreCoordinator struct {
	sem *semaphore.Weighted
}

// NewSemaphoreCoordinator creates a coordinator with n slots. n < 1 means 1.
func NewSemaphoreCoordinator(n int64) *SemaphoreCoordinator {
	return &SemaphoreCoordinator{sem: semaphore.NewWeighted(max(n, 1))}
}

// Do waits for a slot. A context that ends first is returned as the error.
func (c *SemaphoreCoordinator) Do(ctx context.Context, fn func()) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.sem.Release(1)
	fn()
	return nil
}

const (
	jobPending int32 = iota
	jobRunning
	jobCancelled
)

type queuedJob struct {
	fn        func()
	done      chan struct{}
	recovered any
	state     atomic.Int32
}

// QueueCoordinator runs fn calls one by one, in arrival order, on a single
// worker goroutine. A caller whose context ends before its fn started gets
// the context error and the fn is skipped. Once started, Do waits for it.
// A panic in fn is re-raised on the calling goroutine.
type QueueCoordinator struct {
	mu      sync.Mutex
	jobs    *queue.Queue
	wake    chan struct{}
	stopped chan struct{}
	closed  bool
}

// NewQueueCoordinator starts the worker goroutine. Call Close to stop it.
func NewQueueCoordinator() *QueueCoordinator {
	c := &QueueCoordinator{
		jobs:    queue.New(),
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	go c.work()
	return c
}

func (c *QueueCoordinator) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	j := &queuedJob{fn: fn, done: make(chan struct{})}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrCoordinatorClosed
	}
	c.jobs.Add(j)
	c.mu.Unlock()
	c.signal()

	select {
	case <-j.done:
	case <-ctx.Done():
		if j.state.CompareAndSwap(jobPending, jobCancelled) {
			return ctx.Err()
		}
		<-j.done
	}

	if j.recovered != nil {
		panic(j.recovered)
	}
	return nil
}

// Pending returns the number of queued calls not yet picked up.
func (c *QueueCoordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jobs.Length()
}

// Close stops admitting work, lets queued calls finish and stops the worker.
func (c *QueueCoordinator) Close() error {
	c.mu.Lock()
	already := c.closed
	c.closed = true
	c.mu.Unlock()

	if !already {
		c.signal()
	}
	<-c.stopped
	return nil
}

func (c *QueueCoordinator) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *QueueCoordinator) work() {
	defer close(c.stopped)

	for {
		c.mu.Lock()
		for c.jobs.Length() == 0 {
			if c.closed {
				c.mu.Unlock()
				return
			}
			c.mu.Unlock()
			<-c.wake
			c.mu.Lock()
		}
		j := c.jobs.Remove().(*queuedJob)
		c.mu.Unlock()

		if !j.state.CompareAndSwap(jobPending, jobRunning) {
			continue
		}
		c.run(j)
	}
}

func (c *QueueCoordinator) run(j *queuedJob) {
	defer func() {
		if r := recover(); r != nil {
			j.recovered = r
		}
		close(j.done)
	}()
	j.fn()
}

var (
	_ Coordinator = (*MutexCoordinator)(nil)
	_ Coordinator = NoopCoordinator{}
	_ Coordinator = (*SemaphoreCoordinator)(nil)
	_ Coordinator = (*QueueCoordinator)(nil)
)
