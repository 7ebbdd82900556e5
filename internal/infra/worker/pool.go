package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var ErrPoolClosed = errors.New("worker pool closed")

type Task func(ctx context.Context) error

// Pool runs submitted tasks on a fixed number of goroutines. Submit blocks
// while the queue is full, so producers are throttled to the pool's speed.
type Pool struct {
	wg     sync.WaitGroup
	jobs   chan Task
	n      int
	closed atomic.Bool
	failed atomic.Int64
	log    *zerolog.Logger
}

func NewPool(workers int, logger *zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{jobs: make(chan Task, workers*4), n: workers, log: logger}
}

// Start launches the workers. Tasks still queued when ctx ends are drained
// without running.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for task := range p.jobs {
				if ctx.Err() != nil {
					continue
				}
				if err := task(ctx); err != nil {
					p.failed.Add(1)
					p.log.Debug().Err(err).Int("worker", id).Msg("task failed")
				}
			}
		}(i)
	}
}

func (p *Pool) Submit(ctx context.Context, task Task) error {
	if task == nil {
		return errors.New("nil task")
	}
	if p.closed.Load() {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait stops accepting tasks and blocks until every queued task finished.
// It returns how many tasks returned an error.
func (p *Pool) Wait() int64 {
	if p.closed.CompareAndSwap(false, true) {
		close(p.jobs)
	}
	p.wg.Wait()
	return p.failed.Load()
}
