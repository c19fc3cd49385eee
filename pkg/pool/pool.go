// Package pool implements the two worker-pool topologies of the engine:
// a direct-submit pool handing each submitted task to the first free worker
// slot and returning results in submission order, and a set of long-lived
// workers racing over a shared queue with no ordering guarantee.
package pool

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"gitlab.com/parlabs/workpool-go/pkg/logging"
	"gitlab.com/parlabs/workpool-go/pkg/work"
)

// Future is a handle to the result of one submitted task.
type Future[V any] struct {
	done   chan struct{}
	result work.Result[V]
}

// Get blocks until the task has been executed and returns its result.
func (f *Future[V]) Get() work.Result[V] {
	<-f.done
	return f.result
}

// Pool executes submitted tasks on a fixed number of concurrent worker
// slots. The worker count is fixed at construction. A pool is single-use:
// no Submit may follow Close.
type Pool[P, V any] struct {
	size  int
	slots *semaphore.Weighted
	wg    sync.WaitGroup
	log   zerolog.Logger
}

// New creates a pool with the given number of worker slots.
func New[P, V any](size int, log zerolog.Logger) *Pool[P, V] {
	return &Pool[P, V]{
		size:  size,
		slots: semaphore.NewWeighted(int64(size)),
		log:   log.With().Int(logging.Service, logging.PoolService).Logger(),
	}
}

// Size returns the worker count fixed at construction.
func (p *Pool[P, V]) Size() int {
	return p.size
}

// Submit hands the task to the first worker slot that becomes free and
// returns immediately. A fault inside the compute function is attached to
// the future's result, never dropped.
func (p *Pool[P, V]) Submit(task work.Task[P, V]) *Future[V] {
	f := &Future[V]{done: make(chan struct{})}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		// Acquire with a background context cannot fail.
		_ = p.slots.Acquire(context.Background(), 1)
		defer p.slots.Release(1)
		f.result = execute(task.ID, task.Payload, task.Compute)
		if f.result.Err != nil {
			p.log.Error().Int(logging.Job, task.ID.Job).Int(logging.Index, task.ID.Index).Msg(logging.TaskFailed)
		}
		close(f.done)
	}()
	return f
}

// SubmitAll submits the tasks in order and returns their futures in the
// same order.
func (p *Pool[P, V]) SubmitAll(tasks []work.Task[P, V]) []*Future[V] {
	futures := make([]*Future[V], len(tasks))
	for i, task := range tasks {
		futures[i] = p.Submit(task)
	}
	return futures
}

// Wait resolves the given futures and returns their results in the same
// order as they were submitted, regardless of execution order.
func (p *Pool[P, V]) Wait(futures []*Future[V]) []work.Result[V] {
	results := make([]work.Result[V], len(futures))
	for i, f := range futures {
		results[i] = f.Get()
	}
	return results
}

// Close joins every worker. After it returns no task is running and the
// pool must not be used again.
func (p *Pool[P, V]) Close() {
	p.wg.Wait()
	p.log.Info().Msg(logging.ServiceStopped)
}
