// Package task runs deferred work after the HTTP response has been sent.
// Handlers enqueue a job description; a fixed pool of workers consumes the
// queue. Jobs run at most once: there is no retry and no persisted state, so
// a crash mid-job simply loses the work.
package task

import (
	"context"
	"log/slog"
	"sync"
)

// Task is a unit of deferred work.
type Task interface {
	Name() string
	Run(ctx context.Context) error
}

// Func adapts a closure to a Task.
type Func struct {
	TaskName string
	Fn       func(ctx context.Context) error
}

func (f Func) Name() string { return f.TaskName }

func (f Func) Run(ctx context.Context) error { return f.Fn(ctx) }

// Queue is a buffered channel of tasks consumed by a worker pool.
type Queue struct {
	mu     sync.Mutex
	tasks  chan Task
	wg     sync.WaitGroup
	closed bool
}

// NewQueue creates a queue and starts the worker pool.
func NewQueue(workers, buffer int) *Queue {
	if workers < 1 {
		workers = 1
	}
	q := &Queue{
		tasks: make(chan Task, buffer),
	}

	q.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go q.worker()
	}

	return q
}

func (q *Queue) worker() {
	defer q.wg.Done()

	for t := range q.tasks {
		err := t.Run(context.Background())
		if err != nil {
			slog.Error("task failed", "task", t.Name(), "error", err)
		}
	}
}

// Enqueue schedules a task. Returns false if the queue is shut down or full;
// the caller already responded to the client, so a full queue drops the task
// with a log line rather than blocking the request path.
func (q *Queue) Enqueue(t Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		slog.Warn("task queue closed, dropping task", "task", t.Name())
		return false
	}

	select {
	case q.tasks <- t:
		return true
	default:
		slog.Warn("task queue full, dropping task", "task", t.Name())
		return false
	}
}

// Shutdown stops accepting tasks and waits for in-flight and queued tasks to
// finish. Safe to call more than once.
func (q *Queue) Shutdown() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()

	q.wg.Wait()
}
