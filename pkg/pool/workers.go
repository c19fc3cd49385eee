package pool

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"gitlab.com/parlabs/workpool-go/pkg/logging"
	"gitlab.com/parlabs/workpool-go/pkg/queue"
	"gitlab.com/parlabs/workpool-go/pkg/sink"
	"gitlab.com/parlabs/workpool-go/pkg/work"
)

// Workers is a fixed set of long-lived workers racing over a shared queue.
// Each worker loops: pop an item, execute the compute function, put the
// result into the sink, until the queue reports empty. Results arrive in
// completion order, which generally differs from submission order.
type Workers[P, V any] struct {
	size    int
	compute work.Func[P, V]
	queue   *queue.Queue[P]
	sink    *sink.Sink[V]
	wg      sync.WaitGroup
	quit    int64
	running int64
	log     zerolog.Logger
}

// NewWorkers creates a worker set of the given size over the given queue
// and sink. The size is fixed; workers are not started yet.
func NewWorkers[P, V any](size int, compute work.Func[P, V], q *queue.Queue[P], s *sink.Sink[V], log zerolog.Logger) *Workers[P, V] {
	return &Workers[P, V]{
		size:    size,
		compute: compute,
		queue:   q,
		sink:    s,
		log:     log.With().Int(logging.Service, logging.QueueService).Logger(),
	}
}

// Start launches exactly size workers. The queue should be populated
// before calling Start, otherwise workers may observe it empty and
// terminate immediately.
func (w *Workers[P, V]) Start() {
	w.wg.Add(w.size)
	for i := 0; i < w.size; i++ {
		i := i
		atomic.AddInt64(&w.running, 1)
		go func() {
			defer atomic.AddInt64(&w.running, -1)
			defer w.wg.Done()
			w.worker(i)
		}()
	}
	w.log.Info().Int(logging.Size, w.size).Msg(logging.ServiceStarted)
}

func (w *Workers[P, V]) worker(wid int) {
	for atomic.LoadInt64(&w.quit) == 0 {
		item, ok := w.queue.TryPop()
		if !ok {
			w.log.Debug().Int(logging.WID, wid).Msg(logging.WorkerFinished)
			return
		}
		result := execute(item.ID, item.Payload, w.compute)
		if result.Err != nil {
			// the failure is isolated to this task; siblings keep running
			w.log.Error().Int(logging.WID, wid).Int(logging.Index, item.ID.Index).Msg(logging.TaskFailed)
		}
		w.sink.Put(result)
	}
}

// Cancel asks every worker to terminate after its current task. A running
// compute call is not preempted.
func (w *Workers[P, V]) Cancel() {
	atomic.StoreInt64(&w.quit, 1)
}

// Wait blocks until every started worker has reached a terminal state.
// No worker is left running after Wait returns.
func (w *Workers[P, V]) Wait() {
	w.wg.Wait()
	w.log.Info().Msg(logging.ServiceStopped)
}

// Running returns the number of workers that have not yet terminated.
// It is 0 after Wait returns.
func (w *Workers[P, V]) Running() int {
	return int(atomic.LoadInt64(&w.running))
}
