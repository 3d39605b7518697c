package notifier

import (
	"context"
	"sync"

	"github.com/rizanep/waqthecombackend1/pkg/mylogger"
	"go.uber.org/zap"
)

// Task is a unit of side-effect work handed off the request path, like
// recording and broadcasting a notification.
type Task func(ctx context.Context)

// Dispatcher runs tasks on a fixed pool of workers fed by a bounded queue.
// Submit never blocks the caller: when the queue is full the task is dropped
// and logged. Tasks are attempt-once, a failed task is never retried.
type Dispatcher struct {
	queue   chan Task
	workers int
	logger  *zap.Logger
	wg      sync.WaitGroup

	stopOnce sync.Once
}

func NewDispatcher(workers, queueSize int, logger *zap.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}

	return &Dispatcher{
		queue:   make(chan Task, queueSize),
		workers: workers,
		logger:  logger,
	}
}

// Start launches the worker pool. Tasks run with a context detached from the
// originating request, so an HTTP response going out does not cancel the
// notification work behind it.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx)
	}

	mylogger.Info(
		ctx,
		d.logger,
		"Notification dispatcher started ✅",
		zap.Int("workers", d.workers),
		zap.Int("queue_size", cap(d.queue)),
	)
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()

	for task := range d.queue {
		d.run(ctx, task)
	}
}

func (d *Dispatcher) run(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			mylogger.Error(
				ctx,
				d.logger,
				"Notification task panicked",
				zap.Any("panic", r),
			)
		}
	}()

	task(ctx)
}

// Submit enqueues the task, dropping it when the queue is full.
func (d *Dispatcher) Submit(ctx context.Context, task Task) {
	select {
	case d.queue <- task:
	default:
		mylogger.Warn(
			ctx,
			d.logger,
			"Notification queue full, dropping task",
		)
	}
}

// Stop closes the queue and waits for in-flight tasks to finish.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}
