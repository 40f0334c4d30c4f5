package httpapi

import (
	"context"
	"errors"
	"sync"
	"time"

	"browser-task/internal/application/port/input"
	"browser-task/internal/application/port/output"
)

var (
	ErrQueueFull       = errors.New("run queue is full")
	ErrQueueNotRunning = errors.New("run queue is not running")
	ErrQueueStopped    = errors.New("run queue was stopped and cannot be restarted")
)

type runJob struct {
	ctx      context.Context
	req      input.RunRequest
	response chan *input.RunResult
}

// RunQueue executes task runs on a fixed set of workers so that HTTP
// handlers never drive a browser themselves.
type RunQueue struct {
	jobs    chan *runJob
	workers int
	runner  input.TaskRunner
	logger  output.LoggerPort

	mu      sync.RWMutex
	running bool
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewRunQueue(runner input.TaskRunner, workers, size int, logger output.LoggerPort) *RunQueue {
	ctx, cancel := context.WithCancel(context.Background())
	return &RunQueue{
		jobs:    make(chan *runJob, max(size, 0)),
		workers: max(workers, 1),
		runner:  runner,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (q *RunQueue) Start() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped {
		return ErrQueueStopped
	}
	if q.running {
		return errors.New("run queue is already running")
	}
	q.running = true

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
	q.logger.Info("Run queue started", "workers", q.workers, "size", cap(q.jobs))
	return nil
}

// Stop stops accepting jobs and waits for queued and in-flight runs. When ctx
// expires first, the remaining runs are cancelled.
func (q *RunQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return ErrQueueNotRunning
	}
	q.running = false
	q.stopped = true
	close(q.jobs)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cancel()
		q.logger.Info("Run queue stopped")
		return nil
	case <-ctx.Done():
		q.cancel()
		<-done
		q.logger.Warn("Run queue stopped before draining", "error", ctx.Err())
		return ctx.Err()
	}
}

// Submit enqueues a run without blocking. The returned channel receives
// exactly one result unless ctx is done before the run starts.
func (q *RunQueue) Submit(ctx context.Context, req input.RunRequest) (<-chan *input.RunResult, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if !q.running {
		return nil, ErrQueueNotRunning
	}

	job := &runJob{
		ctx:      ctx,
		req:      req,
		response: make(chan *input.RunResult, 1),
	}

	select {
	case q.jobs <- job:
		return job.response, nil
	default:
		return nil, ErrQueueFull
	}
}

func (q *RunQueue) Len() int {
	return len(q.jobs)
}

func (q *RunQueue) IsRunning() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.running
}

func (q *RunQueue) worker(id int) {
	defer q.wg.Done()

	for job := range q.jobs {
		if err := job.ctx.Err(); err != nil {
			q.logger.Debug("Skipping abandoned run", "worker", id, "error", err)
			continue
		}

		ctx, cancel := context.WithCancel(job.ctx)
		stop := context.AfterFunc(q.ctx, cancel)

		start := time.Now()
		res := q.runner.Run(ctx, job.req)
		q.logger.Debug("Run finished", "worker", id, "duration", time.Since(start))

		stop()
		cancel()
		job.response <- res
	}
}
