// Package queue implements a concurrency-safe FIFO of pending work items,
// shared between the producers that fill it and the workers that consume it.
package queue

import (
	"sync"

	"gitlab.com/parlabs/workpool-go/pkg/work"
)

type node[P any] struct {
	item work.Item[P]
	next *node[P]
}

// Queue is a multi-producer, multi-consumer queue of pending work items.
// Push always succeeds and TryPop never blocks: an empty queue is reported
// through the second return value, which is the signal workers use to
// terminate their loops.
type Queue[P any] struct {
	mx   sync.Mutex
	head *node[P]
	tail *node[P]
	size int
}

// New creates an empty queue.
func New[P any]() *Queue[P] {
	return &Queue[P]{}
}

// Push appends an item. The queue is unbounded, so Push never applies
// backpressure.
func (q *Queue[P]) Push(item work.Item[P]) {
	n := &node[P]{item: item}
	q.mx.Lock()
	if q.tail == nil {
		q.head = n
	} else {
		q.tail.next = n
	}
	q.tail = n
	q.size++
	q.mx.Unlock()
}

// TryPop removes and returns the oldest item. The second return value is
// false when the queue is empty; this is a control signal, not an error.
// An item is returned to exactly one caller, never duplicated.
func (q *Queue[P]) TryPop() (work.Item[P], bool) {
	q.mx.Lock()
	defer q.mx.Unlock()
	if q.head == nil {
		var zero work.Item[P]
		return zero, false
	}
	n := q.head
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	q.size--
	return n.item, true
}

// Len returns the number of currently queued items.
func (q *Queue[P]) Len() int {
	q.mx.Lock()
	defer q.mx.Unlock()
	return q.size
}
