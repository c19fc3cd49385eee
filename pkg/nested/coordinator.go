// Package nested implements the two-level topology: long-lived outer
// workers pull jobs from a shared queue and each of them drives its own
// direct-submit inner pool for the subtasks of the job it is processing.
//
// Only this direction of nesting is supported. A queue-consuming worker set
// must never be re-entered recursively from within its own worker callback,
// while the direct-submit pool has no long-lived consumer loop and is safe
// to run inside an outer worker.
package nested

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"gitlab.com/parlabs/workpool-go/pkg/logging"
	"gitlab.com/parlabs/workpool-go/pkg/pool"
	"gitlab.com/parlabs/workpool-go/pkg/queue"
	"gitlab.com/parlabs/workpool-go/pkg/sink"
	"gitlab.com/parlabs/workpool-go/pkg/work"
)

// Reduce turns the results of all subtasks of one job into the job's single
// result value.
type Reduce[V any] func([]work.Result[V]) (V, error)

// Coordinator runs jobs from a shared queue on outer workers, fanning each
// job out to subtasks on a fresh inner pool. The inner pool is fully joined
// before its outer worker picks the next job, so at peak there are
// outer*inner concurrently executing subtasks.
type Coordinator[P, V any] struct {
	outer    int
	inner    int
	subtasks int
	compute  work.Func[P, V]
	reduce   Reduce[V]
	queue    *queue.Queue[P]
	sink     *sink.Sink[V]
	wg       sync.WaitGroup
	quit     int64
	log      zerolog.Logger
	poolLog  zerolog.Logger
}

// New creates a coordinator with outer queue-consuming workers, each
// spawning inner-sized pools for the given number of subtasks per job.
// The subtask payload is the job payload replicated, tagged with the job id
// and a distinct sub-index for traceability.
func New[P, V any](outer, inner, subtasks int, compute work.Func[P, V], reduce Reduce[V],
	q *queue.Queue[P], s *sink.Sink[V], log zerolog.Logger) *Coordinator[P, V] {
	return &Coordinator[P, V]{
		outer:    outer,
		inner:    inner,
		subtasks: subtasks,
		compute:  compute,
		reduce:   reduce,
		queue:    q,
		sink:     s,
		log:      log.With().Int(logging.Service, logging.NestedService).Logger(),
		poolLog:  log,
	}
}

// Start launches the outer workers. The queue should already be populated.
func (c *Coordinator[P, V]) Start() {
	c.wg.Add(c.outer)
	for i := 0; i < c.outer; i++ {
		i := i
		go func() {
			defer c.wg.Done()
			c.worker(i)
		}()
	}
	c.log.Info().Int(logging.Size, c.outer).Msg(logging.ServiceStarted)
}

// Cancel asks outer workers to stop between jobs. A job in flight still
// runs all its subtasks to completion.
func (c *Coordinator[P, V]) Cancel() {
	atomic.StoreInt64(&c.quit, 1)
}

// Wait blocks until every outer worker, and therefore every inner pool,
// has terminated.
func (c *Coordinator[P, V]) Wait() {
	c.wg.Wait()
	c.log.Info().Msg(logging.ServiceStopped)
}

func (c *Coordinator[P, V]) worker(wid int) {
	for atomic.LoadInt64(&c.quit) == 0 {
		item, ok := c.queue.TryPop()
		if !ok {
			c.log.Debug().Int(logging.WID, wid).Msg(logging.WorkerFinished)
			return
		}
		c.sink.Put(c.runJob(wid, item))
	}
}

// runJob executes one outer item: replicate its payload into subtasks,
// run them on a fresh inner pool, join the pool, reduce. The join happens
// before this worker touches the queue again, so no inner pool outlives
// the outer iteration that created it.
func (c *Coordinator[P, V]) runJob(wid int, item work.Item[P]) work.Result[V] {
	inner := pool.New[P, V](c.inner, c.poolLog)
	tasks := make([]work.Task[P, V], c.subtasks)
	for i := range tasks {
		tasks[i] = work.Task[P, V]{
			ID:      work.ID{Job: item.ID.Index, Index: i},
			Payload: item.Payload,
			Compute: c.compute,
		}
	}
	results := inner.Wait(inner.SubmitAll(tasks))
	inner.Close()

	value, err := c.reduce(results)
	if err != nil {
		c.log.Error().Int(logging.WID, wid).Int(logging.Job, item.ID.Index).Msg(logging.TaskFailed)
		return work.Result[V]{ID: item.ID, Err: work.NewTaskError(item.ID, err)}
	}
	c.log.Debug().Int(logging.WID, wid).Int(logging.Job, item.ID.Index).Int(logging.Size, c.subtasks).Msg(logging.SubtasksReduced)
	return work.Result[V]{ID: item.ID, Value: value}
}
