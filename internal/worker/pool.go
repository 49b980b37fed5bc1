// Package worker runs board jobs on a fixed set of goroutines.
package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/lgbarn/chessboard-go/internal/chess"
)

// Job names one save to process.
type Job struct {
	Name  string
	Index int // Submission order, for callers that need stable output
}

// Result is the outcome of one Job.
type Result struct {
	Name  string
	Index int
	Board *chess.Board // Nil when Err is set
	Err   error
}

// JobFunc processes a single job.
type JobFunc func(ctx context.Context, job Job) Result

// Pool fans jobs out to a fixed number of workers.
type Pool struct {
	numWorkers  int
	bufferSize  int
	stopOnError bool
	jobs        chan Job
	results     chan Result
	fn          JobFunc
	wg          sync.WaitGroup
	stopped     atomic.Bool
}

// Option configures a Pool.
type Option func(*Pool)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n >= 1 {
			p.numWorkers = n
		}
	}
}

// WithBufferSize sets the job and result channel buffer size.
func WithBufferSize(size int) Option {
	return func(p *Pool) {
		if size >= 1 {
			p.bufferSize = size
		}
	}
}

// WithStopOnError makes Run stop the pool after the first failed job.
func WithStopOnError() Option {
	return func(p *Pool) {
		p.stopOnError = true
	}
}

// NewPool creates a pool running fn. Default: 1 worker, buffer size of 10.
func NewPool(fn JobFunc, opts ...Option) *Pool {
	p := &Pool{
		numWorkers: 1,
		bufferSize: 10,
		fn:         fn,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.jobs = make(chan Job, p.bufferSize)
	p.results = make(chan Result, p.bufferSize)
	return p
}

// Start launches the workers. Jobs received after ctx is done, or after
// Stop, are drained without being processed.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.work(ctx)
	}
}

func (p *Pool) work(ctx context.Context) {
	defer p.wg.Done()
	for job := range p.jobs {
		if p.IsStopped() || ctx.Err() != nil {
			continue
		}
		p.results <- p.fn(ctx, job)
	}
}

// Submit queues a job, blocking while the buffer is full.
func (p *Pool) Submit(job Job) {
	p.jobs <- job
}

// Stop makes workers skip any jobs not yet started.
func (p *Pool) Stop() {
	p.stopped.Store(true)
}

// IsStopped reports whether Stop has been called.
func (p *Pool) IsStopped() bool {
	return p.stopped.Load()
}

// Close stops accepting jobs, waits for the workers and then closes the
// result channel.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
}

// Results returns the result channel.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Run processes every name with fn and returns the results in the order
// the names were given. Names skipped because ctx ended, or because the
// pool was stopped by WithStopOnError, have no result.
func Run(ctx context.Context, names []string, fn JobFunc, opts ...Option) []Result {
	p := NewPool(fn, opts...)
	p.Start(ctx)

	go func() {
		for i, name := range names {
			p.Submit(Job{Name: name, Index: i})
		}
		p.Close()
	}()

	collected := make([]*Result, len(names))
	for r := range p.Results() {
		r := r
		collected[r.Index] = &r
		if r.Err != nil && p.stopOnError {
			p.Stop()
		}
	}

	out := make([]Result, 0, len(names))
	for _, r := range collected {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}
