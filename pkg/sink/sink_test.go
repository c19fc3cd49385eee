package sink_test

import (
	"sync"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"gitlab.com/parlabs/workpool-go/pkg/sink"
	"gitlab.com/parlabs/workpool-go/pkg/work"
)

var _ = Describe("Sink", func() {
	var s *sink.Sink[int]

	BeforeEach(func() {
		s = sink.New[int]()
	})

	Describe("Drain", func() {
		It("should return already deposited results in arrival order", func() {
			s.Put(work.Result[int]{ID: work.ID{Index: 3}, Value: 30})
			s.Put(work.Result[int]{ID: work.ID{Index: 1}, Value: 10})
			s.Put(work.Result[int]{ID: work.ID{Index: 2}, Value: 20})

			results := s.Drain(3)
			Expect(results).To(HaveLen(3))
			Expect(results[0].ID.Index).To(Equal(3))
			Expect(results[1].ID.Index).To(Equal(1))
			Expect(results[2].ID.Index).To(Equal(2))
		})

		It("should block until the expected count arrives", func() {
			go func() {
				time.Sleep(20 * time.Millisecond)
				s.Put(work.Result[int]{ID: work.ID{Index: 1}})
				time.Sleep(20 * time.Millisecond)
				s.Put(work.Result[int]{ID: work.ID{Index: 2}})
			}()
			results := s.Drain(2)
			Expect(results).To(HaveLen(2))
		})

		It("should consume drained results, leaving the rest", func() {
			for i := 1; i <= 4; i++ {
				s.Put(work.Result[int]{ID: work.ID{Index: i}})
			}
			first := s.Drain(3)
			Expect(first[0].ID.Index).To(Equal(1))
			Expect(s.Len()).To(Equal(1))
			second := s.Drain(1)
			Expect(second[0].ID.Index).To(Equal(4))
			Expect(s.Len()).To(Equal(0))
		})
	})

	Describe("DrainTimeout", func() {
		It("should report how many results arrived when the count is unreachable", func() {
			s.Put(work.Result[int]{ID: work.ID{Index: 1}})

			_, err := s.DrainTimeout(3, 50*time.Millisecond)
			Expect(err).To(HaveOccurred())
			dte, ok := err.(*work.DrainTimeoutError)
			Expect(ok).To(BeTrue())
			Expect(dte.Expected).To(Equal(3))
			Expect(dte.Received).To(Equal(1))
			// timing out must not consume anything
			Expect(s.Len()).To(Equal(1))
		})

		It("should give up even when a late result lands just before the deadline", func() {
			done := make(chan struct{})
			go func() {
				defer GinkgoRecover()
				defer close(done)
				_, err := s.DrainTimeout(3, 50*time.Millisecond)
				Expect(err).To(HaveOccurred())
			}()
			time.Sleep(45 * time.Millisecond)
			s.Put(work.Result[int]{ID: work.ID{Index: 1}})
			Eventually(done, time.Second).Should(BeClosed())
		})

		It("should return results when they arrive in time", func() {
			go func() {
				time.Sleep(10 * time.Millisecond)
				s.Put(work.Result[int]{ID: work.ID{Index: 1}})
			}()
			results, err := s.DrainTimeout(1, time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
		})
	})

	Describe("concurrent Put", func() {
		It("should keep every result", func() {
			const writers = 8
			const perWriter = 100
			var wg sync.WaitGroup
			wg.Add(writers)
			for w := 0; w < writers; w++ {
				w := w
				go func() {
					defer wg.Done()
					for i := 0; i < perWriter; i++ {
						s.Put(work.Result[int]{ID: work.ID{Job: w, Index: i}})
					}
				}()
			}
			wg.Wait()

			results := s.Drain(writers * perWriter)
			ids := make(map[work.ID]bool)
			for _, r := range results {
				ids[r.ID] = true
			}
			Expect(ids).To(HaveLen(writers * perWriter))
		})
	})
})
