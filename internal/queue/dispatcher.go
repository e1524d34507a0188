package queue

import (
	"context"
	"errors"
	"sync"

	"feedback-backend/internal/shared/telemetry"
)

// ErrQueueFull indicates the bounded queue has no free capacity.
var ErrQueueFull = errors.New("job queue full")

// ErrStopped indicates the dispatcher is no longer accepting work.
var ErrStopped = errors.New("job queue stopped")

// Handler processes a single queued message.
type Handler func(ctx context.Context, msg Message)

// Dispatcher owns a bounded in-process queue and a fixed-size worker pool.
// Capacity provides backpressure: Enqueue never blocks and reports a full
// queue to the caller instead of accepting unbounded in-flight work.
type Dispatcher struct {
	tasks   chan Message
	workers int
	handler Handler

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher constructs a Dispatcher with the given capacity and worker count.
func NewDispatcher(capacity, workers int, handler Handler) *Dispatcher {
	if capacity <= 0 {
		capacity = 256
	}
	if workers <= 0 {
		workers = 4
	}
	return &Dispatcher{
		tasks:   make(chan Message, capacity),
		workers: workers,
		handler: handler,
	}
}

// Start launches the worker pool. Workers exit when ctx is canceled or the
// queue is closed by Stop.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run(ctx)
	}
	telemetry.Info("queue.started", map[string]any{
		"workers":  d.workers,
		"capacity": cap(d.tasks),
	})
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-d.tasks:
			if !ok {
				return
			}
			d.handler(ctx, msg)
		}
	}
}

// Enqueue adds a message without blocking. It returns ErrQueueFull when the
// queue is at capacity and ErrStopped after Stop.
func (d *Dispatcher) Enqueue(msg Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return ErrStopped
	}
	select {
	case d.tasks <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for in-flight work to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.tasks)
	d.mu.Unlock()
	d.wg.Wait()
}

// Len reports the number of queued, not-yet-claimed messages.
func (d *Dispatcher) Len() int {
	return len(d.tasks)
}
