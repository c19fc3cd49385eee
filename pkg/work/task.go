// Package work defines the basic types shared by all parts of the engine:
// tasks, queued items, results and the error types used across packages.
package work

import "sort"

// ID identifies a task for result correlation. It is never used to order
// execution. Job is the owning job for subtasks spawned by a nested run
// and stays 0 for flat tasks.
type ID struct {
	Job   int
	Index int
}

// Less provides the canonical (Job, Index) ordering used when callers
// re-sort results after an unordered run.
func (id ID) Less(other ID) bool {
	if id.Job != other.Job {
		return id.Job < other.Job
	}
	return id.Index < other.Index
}

// Func computes a result value from a payload. Implementations must be safe
// to invoke concurrently and must not mutate shared state outside their own
// stack.
type Func[P, V any] func(payload P) (V, error)

// Task is one independent unit of CPU-bound work. A task is immutable once
// created and is consumed exactly once by exactly one worker.
type Task[P, V any] struct {
	ID      ID
	Payload P
	Compute Func[P, V]
}

// Item is the queued representation of a task awaiting execution.
// It carries enough context to reconstruct a Result after the pop.
type Item[P any] struct {
	ID      ID
	Payload P
}

// Result correlates an output value with the originating task.
// Err is non-nil when the compute function returned an error or panicked;
// such results still count towards drain accounting.
type Result[V any] struct {
	ID    ID
	Value V
	Err   error
}

// SortByID reorders results in place by (Job, Index). Workers racing over a
// shared queue finish at different times, so arrival order carries no meaning
// and callers needing determinism re-sort with this.
func SortByID[V any](results []Result[V]) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].ID.Less(results[j].ID)
	})
}
