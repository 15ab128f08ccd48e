package dispatch

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/semaphore"
)

// defaultMaxInFlight bounds concurrent sends when no limit is configured.
const defaultMaxInFlight = 16

// Executor schedules fire-and-forget work. Go must return without waiting
// for task; the task receives a context that is cancelled on shutdown.
type Executor interface {
	Go(task func(ctx context.Context))
}

// Pool runs each task on its own goroutine, with at most maxInFlight tasks
// running at once. Excess tasks wait for a slot off the caller's goroutine.
type Pool struct {
	ctx    context.Context
	cancel context.CancelFunc
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewPool creates a pool. maxInFlight <= 0 selects the default limit.
func NewPool(maxInFlight int, logger *slog.Logger) *Pool {
	if maxInFlight <= 0 {
		maxInFlight = defaultMaxInFlight
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		ctx:    ctx,
		cancel: cancel,
		sem:    semaphore.NewWeighted(int64(maxInFlight)),
		logger: logger,
	}
}

// Go schedules task.
func (p *Pool) Go(task func(ctx context.Context)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		// After Close the acquire fails and the task runs with a cancelled
		// context so it can record its outcome.
		if err := p.sem.Acquire(p.ctx, 1); err == nil {
			defer p.sem.Release(1)
		}
		runTask(p.ctx, task, p.logger)
	}()
}

// Wait blocks until every scheduled task has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Close cancels running tasks and waits for them to return.
func (p *Pool) Close() {
	p.cancel()
	p.wg.Wait()
}

// Serial runs tasks one at a time, in submission order, on a single worker
// goroutine. It is the single-threaded counterpart of Pool.
type Serial struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func(ctx context.Context)
	closed  bool
	pending sync.WaitGroup
	done    chan struct{}
}

// NewSerial starts the worker goroutine.
func NewSerial(logger *slog.Logger) *Serial {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Serial{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
		done:   make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.loop()
	return s
}

// Go queues task. The queue is unbounded, so Go never blocks on the worker.
func (s *Serial) Go(task func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.logger.Warn("task submitted after executor shutdown")
		return
	}
	s.pending.Add(1)
	s.queue = append(s.queue, task)
	s.cond.Signal()
}

func (s *Serial) loop() {
	defer close(s.done)
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		task := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.mu.Unlock()

		runTask(s.ctx, task, s.logger)
		s.pending.Done()
	}
}

// Wait blocks until the queue is drained.
func (s *Serial) Wait() {
	s.pending.Wait()
}

// Close cancels the context of queued and running tasks, lets the queue drain
// and stops the worker.
func (s *Serial) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()

	s.cancel()
	<-s.done
}

// runTask runs task, logging instead of crashing on a panic.
func runTask(ctx context.Context, task func(ctx context.Context), logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic recovered in background task",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	task(ctx)
}
