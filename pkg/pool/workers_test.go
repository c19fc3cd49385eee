package pool_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"gitlab.com/parlabs/workpool-go/pkg/pool"
	"gitlab.com/parlabs/workpool-go/pkg/queue"
	"gitlab.com/parlabs/workpool-go/pkg/sink"
	"gitlab.com/parlabs/workpool-go/pkg/work"
)

var _ = Describe("Workers", func() {
	var (
		q   *queue.Queue[int]
		s   *sink.Sink[int]
		log zerolog.Logger
	)

	BeforeEach(func() {
		q = queue.New[int]()
		s = sink.New[int]()
		log = zerolog.Nop()
	})

	fill := func(count int) {
		for i := 1; i <= count; i++ {
			q.Push(work.Item[int]{ID: work.ID{Index: i}, Payload: i})
		}
	}

	Describe("draining a full run", func() {
		It("should produce exactly one result per submitted task", func() {
			const count = 50
			fill(count)
			w := pool.NewWorkers(4, square, q, s, log)
			w.Start()
			results := s.Drain(count)
			w.Wait()

			Expect(results).To(HaveLen(count))
			ids := make(map[int]bool)
			for _, r := range results {
				Expect(r.Err).NotTo(HaveOccurred())
				Expect(r.Value).To(Equal(r.ID.Index * r.ID.Index))
				ids[r.ID.Index] = true
			}
			Expect(ids).To(HaveLen(count))
			Expect(q.Len()).To(Equal(0))
		})
	})

	Describe("arrival order", func() {
		It("should not preserve submission order when task costs are skewed", func() {
			// task 1 is much more expensive than task 2
			skewed := func(n int) (int, error) {
				if n == 1 {
					time.Sleep(200 * time.Millisecond)
				}
				return n, nil
			}
			fill(2)
			w := pool.NewWorkers(2, skewed, q, s, log)
			w.Start()
			results := s.Drain(2)
			w.Wait()

			Expect(results[0].ID.Index).To(Equal(2))
			Expect(results[1].ID.Index).To(Equal(1))

			work.SortByID(results)
			Expect(results[0].ID.Index).To(Equal(1))
			Expect(results[1].ID.Index).To(Equal(2))
		})
	})

	Describe("a failing task", func() {
		It("should reach the sink as an error-tagged result without disturbing siblings", func() {
			faulty := func(n int) (int, error) {
				if n == 3 {
					return 0, errors.New("broken payload")
				}
				return n, nil
			}
			fill(5)
			w := pool.NewWorkers(2, faulty, q, s, log)
			w.Start()
			results := s.Drain(5)
			w.Wait()

			Expect(results).To(HaveLen(5))
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					Expect(r.ID.Index).To(Equal(3))
				}
			}
			Expect(failed).To(Equal(1))
		})

		It("should survive a panicking task", func() {
			panicky := func(n int) (int, error) {
				if n == 2 {
					panic("kaboom")
				}
				return n, nil
			}
			fill(4)
			w := pool.NewWorkers(2, panicky, q, s, log)
			w.Start()
			results := s.Drain(4)
			w.Wait()
			Expect(results).To(HaveLen(4))
		})
	})

	Describe("termination", func() {
		It("should leave no worker running after Wait", func() {
			fill(20)
			w := pool.NewWorkers(3, square, q, s, log)
			w.Start()
			s.Drain(20)
			w.Wait()
			Expect(w.Running()).To(Equal(0))
		})

		It("should terminate immediately on an empty queue", func() {
			w := pool.NewWorkers(3, square, q, s, log)
			w.Start()
			w.Wait()
			Expect(w.Running()).To(Equal(0))
			Expect(s.Len()).To(Equal(0))
		})
	})

	Describe("Cancel", func() {
		It("should stop between tasks without losing popped items", func() {
			sluggish := func(n int) (int, error) {
				time.Sleep(time.Millisecond)
				return n, nil
			}
			const count = 1000
			fill(count)
			w := pool.NewWorkers(2, sluggish, q, s, log)
			w.Start()
			time.Sleep(10 * time.Millisecond)
			w.Cancel()
			w.Wait()

			Expect(w.Running()).To(Equal(0))
			// every item was either executed or is still queued
			Expect(s.Len() + q.Len()).To(Equal(count))
			Expect(s.Len()).To(BeNumerically("<", count))
		})
	})
})
