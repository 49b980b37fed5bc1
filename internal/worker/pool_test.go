package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lgbarn/chessboard-go/internal/chess"
	"github.com/lgbarn/chessboard-go/internal/testutil"
)

// countingJob returns a job function that increments a counter.
func countingJob(counter *int32) JobFunc {
	return func(_ context.Context, job Job) Result {
		atomic.AddInt32(counter, 1)
		return Result{Name: job.Name, Index: job.Index, Board: chess.NewBoard()}
	}
}

// collectResults drains the result channel and returns the count.
func collectResults(pool *Pool) int {
	count := 0
	for range pool.Results() {
		count++
	}
	return count
}

func TestPoolBasic(t *testing.T) {
	var processed int32
	pool := NewPool(countingJob(&processed), WithWorkers(4), WithBufferSize(10))
	pool.Start(context.Background())

	const numJobs = 10
	for i := 0; i < numJobs; i++ {
		pool.Submit(Job{Name: fmt.Sprintf("save-%d", i), Index: i})
	}
	go pool.Close()

	testutil.AssertEqual(t, collectResults(pool), numJobs)
	testutil.AssertEqual(t, atomic.LoadInt32(&processed), int32(numJobs))
}

func TestPoolStop(t *testing.T) {
	var processed int32
	release := make(chan struct{})
	fn := func(ctx context.Context, job Job) Result {
		<-release
		return countingJob(&processed)(ctx, job)
	}

	pool := NewPool(fn, WithBufferSize(20))
	pool.Start(context.Background())
	for i := 0; i < 10; i++ {
		pool.Submit(Job{Index: i})
	}

	pool.Stop()
	testutil.AssertTrue(t, pool.IsStopped())
	close(release)

	go pool.Close()
	results := collectResults(pool)
	// At most the job already running when Stop was called completes.
	testutil.AssertTrue(t, results <= 1, "results = %d, want <= 1", results)
}

func TestPoolOptions(t *testing.T) {
	pool := NewPool(nil)
	testutil.AssertEqual(t, pool.numWorkers, 1)
	testutil.AssertEqual(t, pool.bufferSize, 10)
	testutil.AssertFalse(t, pool.stopOnError)

	pool = NewPool(nil, WithWorkers(0), WithBufferSize(-1))
	testutil.AssertEqual(t, pool.numWorkers, 1, "invalid options are ignored")
	testutil.AssertEqual(t, pool.bufferSize, 10)

	pool = NewPool(nil, WithWorkers(8), WithBufferSize(3), WithStopOnError())
	testutil.AssertEqual(t, pool.numWorkers, 8)
	testutil.AssertEqual(t, cap(pool.jobs), 3)
	testutil.AssertTrue(t, pool.stopOnError)
}

func TestRunKeepsOrder(t *testing.T) {
	names := []string{"e", "d", "c", "b", "a"}
	fn := func(_ context.Context, job Job) Result {
		// Later jobs finish first.
		time.Sleep(time.Duration(len(names)-job.Index) * time.Millisecond)
		return Result{Name: job.Name, Index: job.Index}
	}

	results := Run(context.Background(), names, fn, WithWorkers(5))
	testutil.AssertEqual(t, len(results), len(names))
	for i, r := range results {
		testutil.AssertEqual(t, r.Index, i)
		testutil.AssertEqual(t, r.Name, names[i])
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var processed int32
	results := Run(ctx, []string{"a", "b", "c"}, countingJob(&processed), WithWorkers(2))
	testutil.AssertEqual(t, len(results), 0)
	testutil.AssertEqual(t, atomic.LoadInt32(&processed), int32(0))
}

func TestRunStopOnError(t *testing.T) {
	names := make([]string, 50)
	for i := range names {
		names[i] = fmt.Sprintf("save-%d", i)
	}
	var processed int32
	fn := func(_ context.Context, job Job) Result {
		atomic.AddInt32(&processed, 1)
		if job.Index == 0 {
			return Result{Name: job.Name, Index: job.Index, Err: errors.New("unreadable")}
		}
		// Give the failure time to stop the pool.
		time.Sleep(time.Millisecond)
		return Result{Name: job.Name, Index: job.Index}
	}

	results := Run(context.Background(), names, fn, WithStopOnError(), WithBufferSize(1))
	testutil.AssertTrue(t, len(results) >= 1)
	testutil.AssertError(t, results[0].Err)
	testutil.AssertTrue(t, len(results) < len(names), "results = %d, want fewer than %d", len(results), len(names))

	// Without the option every job runs.
	atomic.StoreInt32(&processed, 0)
	results = Run(context.Background(), names, fn)
	testutil.AssertEqual(t, len(results), len(names))
	testutil.AssertEqual(t, atomic.LoadInt32(&processed), int32(len(names)))
}
