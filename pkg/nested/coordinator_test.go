package nested_test

import (
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"gitlab.com/parlabs/workpool-go/pkg/nested"
	"gitlab.com/parlabs/workpool-go/pkg/queue"
	"gitlab.com/parlabs/workpool-go/pkg/sink"
	"gitlab.com/parlabs/workpool-go/pkg/work"
)

var _ = Describe("Coordinator", func() {
	var (
		q   *queue.Queue[float64]
		s   *sink.Sink[float64]
		log zerolog.Logger
	)

	BeforeEach(func() {
		q = queue.New[float64]()
		s = sink.New[float64]()
		log = zerolog.Nop()
	})

	fill := func(jobs int) {
		for i := 1; i <= jobs; i++ {
			q.Push(work.Item[float64]{ID: work.ID{Index: i}, Payload: float64(i)})
		}
	}

	identity := func(p float64) (float64, error) { return p, nil }

	Describe("a full nested run", func() {
		It("should produce one result per job with the reduced value", func() {
			const jobs = 6
			fill(jobs)
			c := nested.New(2, 2, 4, identity, nested.Mean(1), q, s, log)
			c.Start()
			results := s.Drain(jobs)
			c.Wait()

			work.SortByID(results)
			Expect(results).To(HaveLen(jobs))
			for i, r := range results {
				Expect(r.ID.Index).To(Equal(i + 1))
				Expect(r.Err).NotTo(HaveOccurred())
				// all subtasks of job i echo the payload, so the mean is the payload
				Expect(r.Value).To(BeNumerically("~", float64(i+1), 1e-9))
			}
			Expect(q.Len()).To(Equal(0))
		})

		It("should execute every subtask exactly once and join all inner pools", func() {
			const jobs = 5
			const subtasks = 8
			var executions, inFlight int64
			counting := func(p float64) (float64, error) {
				atomic.AddInt64(&inFlight, 1)
				defer atomic.AddInt64(&inFlight, -1)
				atomic.AddInt64(&executions, 1)
				return p, nil
			}
			fill(jobs)
			c := nested.New(2, 3, subtasks, counting, nested.Mean(1), q, s, log)
			c.Start()
			s.Drain(jobs)
			c.Wait()

			Expect(atomic.LoadInt64(&executions)).To(Equal(int64(jobs * subtasks)))
			Expect(atomic.LoadInt64(&inFlight)).To(Equal(int64(0)))
		})

		It("should tag subtasks with the owning job and a distinct sub-index", func() {
			seen := sink.New[float64]()
			recording := func(results []work.Result[float64]) (float64, error) {
				for _, r := range results {
					seen.Put(r)
				}
				return 0, nil
			}
			fill(1)
			c := nested.New(1, 2, 4, identity, recording, q, s, log)
			c.Start()
			s.Drain(1)
			c.Wait()

			inner := seen.Drain(4)
			indices := make(map[int]bool)
			for _, r := range inner {
				Expect(r.ID.Job).To(Equal(1))
				indices[r.ID.Index] = true
			}
			Expect(indices).To(HaveLen(4))
		})
	})

	Describe("Cancel", func() {
		It("should stop between jobs without losing popped ones", func() {
			var inFlight int64
			sluggish := func(p float64) (float64, error) {
				atomic.AddInt64(&inFlight, 1)
				defer atomic.AddInt64(&inFlight, -1)
				time.Sleep(time.Millisecond)
				return p, nil
			}
			const jobs = 500
			fill(jobs)
			c := nested.New(2, 2, 4, sluggish, nested.Mean(1), q, s, log)
			c.Start()
			time.Sleep(10 * time.Millisecond)
			c.Cancel()
			c.Wait()

			// every job was either reduced into the sink or is still queued
			Expect(s.Len() + q.Len()).To(Equal(jobs))
			Expect(s.Len()).To(BeNumerically("<", jobs))
			Expect(atomic.LoadInt64(&inFlight)).To(Equal(int64(0)))
		})
	})

	Describe("Mean reducer", func() {
		constant := func(c float64) []work.Result[float64] {
			results := make([]work.Result[float64], 10)
			for i := range results {
				results[i] = work.Result[float64]{ID: work.ID{Index: i}, Value: c}
			}
			return results
		}

		It("should return the constant itself for constant inner results", func() {
			value, err := nested.Mean(1)(constant(3.25))
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(BeNumerically("~", 3.25, 1e-12))
		})

		It("should apply the correction factor", func() {
			value, err := nested.Mean(2)(constant(10))
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(BeNumerically("~", 5, 1e-12))
		})

		It("should fail on an empty result set", func() {
			_, err := nested.Mean(1)(nil)
			Expect(err).To(HaveOccurred())
		})

		It("should fail on the first failed subtask", func() {
			results := constant(1)
			results[3].Err = errors.New("subtask fault")
			_, err := nested.Mean(1)(results)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("a job whose subtasks fail", func() {
		It("should still deliver an error-tagged outer result", func() {
			failing := func(p float64) (float64, error) {
				return 0, errors.New("always broken")
			}
			fill(3)
			c := nested.New(2, 2, 4, failing, nested.Mean(1), q, s, log)
			c.Start()
			results := s.Drain(3)
			c.Wait()

			Expect(results).To(HaveLen(3))
			for _, r := range results {
				Expect(r.Err).To(HaveOccurred())
			}
		})
	})
})
