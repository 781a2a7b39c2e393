// Package runloop provides the host's cooperative scheduler: a single
// goroutine that runs posted tasks one at a time in posting order.
package runloop

import (
	"context"
	"sync"
)

// Loop is an unbounded FIFO of tasks drained by Run.
type Loop struct {
	mu    sync.Mutex
	tasks []func()
	wake  chan struct{}
}

// New returns an idle loop. Call Run to start draining it.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post enqueues task. It never blocks and is safe to call from any
// goroutine, including from inside a running task.
func (l *Loop) Post(task func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tasks) == 0 {
		return nil, false
	}
	task := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]
	return task, true
}

// Run executes tasks until ctx is done. Pending tasks are dropped on exit.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if task, ok := l.next(); ok {
			task()
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Start runs the loop on a new goroutine and returns a function that stops
// it and waits for the current task to finish.
func (l *Loop) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = l.Run(ctx)
	}()
	return func() {
		cancel()
		wg.Wait()
	}
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}
