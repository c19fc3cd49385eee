// Package sink implements an ordering-agnostic collector for results
// produced concurrently by workers.
package sink

import (
	"sync"
	"time"

	"gitlab.com/parlabs/workpool-go/pkg/work"
)

// Sink accumulates results in arrival order. Put is safe for concurrent
// callers and blocks only for mutual exclusion. Drain blocks the caller
// until the expected number of results has been deposited.
type Sink[V any] struct {
	mx      sync.Mutex
	arrived *sync.Cond
	results []work.Result[V]
}

// New creates an empty sink.
func New[V any]() *Sink[V] {
	s := &Sink[V]{}
	s.arrived = sync.NewCond(&s.mx)
	return s
}

// Put deposits one result.
func (s *Sink[V]) Put(r work.Result[V]) {
	s.mx.Lock()
	s.results = append(s.results, r)
	s.mx.Unlock()
	s.arrived.Broadcast()
}

// Drain blocks until n results have arrived, then removes and returns the
// first n in arrival order. Draining a count that will never be reached
// blocks forever; callers must make sure n matches the number of tasks
// actually submitted, or use DrainTimeout.
func (s *Sink[V]) Drain(n int) []work.Result[V] {
	s.mx.Lock()
	defer s.mx.Unlock()
	for len(s.results) < n {
		s.arrived.Wait()
	}
	return s.take(n)
}

// DrainTimeout behaves like Drain, but gives up after the given timeout and
// returns a DrainTimeoutError stating how many results did arrive. The sink
// is left untouched on timeout.
func (s *Sink[V]) DrainTimeout(n int, timeout time.Duration) ([]work.Result[V], error) {
	deadline := time.Now().Add(timeout)
	// The wakeup has to take the lock first: it must not fire between the
	// waiter's deadline check and its registration inside Wait, or the
	// broadcast is lost and the waiter parks forever.
	timer := time.AfterFunc(timeout, func() {
		s.mx.Lock()
		defer s.mx.Unlock()
		s.arrived.Broadcast()
	})
	defer timer.Stop()

	s.mx.Lock()
	defer s.mx.Unlock()
	for len(s.results) < n {
		if !time.Now().Before(deadline) {
			return nil, work.NewDrainTimeoutError(n, len(s.results))
		}
		s.arrived.Wait()
	}
	return s.take(n), nil
}

// Len returns the number of results currently deposited.
func (s *Sink[V]) Len() int {
	s.mx.Lock()
	defer s.mx.Unlock()
	return len(s.results)
}

// take removes the first n results. Caller must hold the lock.
func (s *Sink[V]) take(n int) []work.Result[V] {
	taken := make([]work.Result[V], n)
	copy(taken, s.results[:n])
	s.results = s.results[n:]
	return taken
}
