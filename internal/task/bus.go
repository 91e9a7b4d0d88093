package task

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Job is one unit of work enqueued on a Bus.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Bus is a minimal in-process, channel-backed task queue. It replaces the
// framework cron/worker wiring the teacher used for its own background
// jobs: here, Signals enqueues recalc_payroll jobs, consumed by the pool
// (spec §4.8 "Scheduler & Signals"). The retention sweep does not go
// through the Bus; it runs on its own daily goroutine and from the CLI.
type Bus struct {
	jobs    chan Job
	log     *logrus.Entry
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	started bool
	mu      sync.Mutex
}

// NewBus creates a Bus with the given queue depth. A depth of 0 makes
// Enqueue block until a worker is ready to accept the job.
func NewBus(queueDepth int, log *logrus.Entry) *Bus {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Bus{jobs: make(chan Job, queueDepth), log: log}
}

// Start launches workerCount goroutines draining the queue until ctx is
// canceled or Stop is called.
func (b *Bus) Start(ctx context.Context, workerCount int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return
	}
	b.started = true

	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel

	if workerCount <= 0 {
		workerCount = 1
	}
	for i := 0; i < workerCount; i++ {
		b.wg.Add(1)
		go b.worker(ctx)
	}
}

func (b *Bus) worker(ctx context.Context) {
	defer b.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-b.jobs:
			if !ok {
				return
			}
			if err := job.Run(ctx); err != nil {
				b.log.WithError(err).WithField("job", job.Name).Error("task bus: job failed")
			}
		}
	}
}

// Enqueue submits job to the queue, or returns ctx.Err() if ctx is canceled
// first.
func (b *Bus) Enqueue(ctx context.Context, job Job) error {
	select {
	case b.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop cancels all workers and waits for in-flight jobs to return.
func (b *Bus) Stop() {
	b.mu.Lock()
	cancel := b.cancel
	b.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	b.wg.Wait()
}
