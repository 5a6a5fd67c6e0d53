// Package worker runs background jobs on a fixed pool of goroutines. The
// server uses it to recompute derived player stats off the request path.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/hangeulsoft/koreanparty/internal/logger"
)

// Job is a unit of background work. Name is used for logging only.
type Job interface {
	Run(context.Context) error
	Name() string
}

// Pool fans jobs out to a fixed number of workers over a bounded queue.
type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	cancel  context.CancelFunc
	log     *logger.Logger
}

// NewPool sizes a pool. Non-positive arguments get small defaults.
func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		log:     logger.Default().WithPrefix("worker-pool"),
	}
}

// Start launches the workers. They drain the queue until Stop is called or
// ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.log.Info("starting %d workers (queue %d)", p.workers, cap(p.jobs))

	for i := 1; i <= p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	log := p.log.WithField("worker_id", id)

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			jobLog := log.WithField("job", job.Name())
			start := time.Now()
			if err := job.Run(logger.NewContext(ctx, jobLog)); err != nil {
				jobLog.Error("job failed after %v: %v", time.Since(start), err)
				continue
			}
			jobLog.Info("job completed in %v", time.Since(start))
		}
	}
}

// Stop cancels the workers and waits for in-flight jobs to finish. Queued
// jobs that have not started yet are dropped.
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	close(p.jobs)
	p.wg.Wait()
	p.log.Info("worker pool stopped")
}

// Submit enqueues a job. Blocks when the queue is full.
func (p *Pool) Submit(job Job) {
	p.jobs <- job
}

// QueueSize reports the number of jobs waiting to start.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}
