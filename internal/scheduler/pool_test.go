package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/frahmantamala/simmas/internal/scheduler"
	"github.com/frahmantamala/simmas/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Pool", func() {
	var pool *scheduler.Pool

	BeforeEach(func() {
		pool = scheduler.NewPool(scheduler.Config{MaxWorkers: 3, JobQueueSize: 4, JobTimeout: time.Second}, logger.Discard())
	})

	AfterEach(func() {
		pool.Shutdown()
	})

	It("runs every job and reports errors by position", func() {
		var ran int32
		boom := errors.New("boom")
		jobs := make([]scheduler.Job, 10)
		for i := range jobs {
			i := i
			jobs[i] = scheduler.Job{Name: "job", Run: func(ctx context.Context) error {
				atomic.AddInt32(&ran, 1)
				if i == 7 {
					return boom
				}
				return nil
			}}
		}

		errs := pool.RunAll(context.Background(), jobs)
		Expect(atomic.LoadInt32(&ran)).To(Equal(int32(10)))
		for i, err := range errs {
			if i == 7 {
				Expect(err).To(MatchError(boom))
			} else {
				Expect(err).NotTo(HaveOccurred())
			}
		}
	})

	It("turns a panicking job into an error", func() {
		errs := pool.RunAll(context.Background(), []scheduler.Job{
			{Name: "panics", Run: func(ctx context.Context) error { panic("bad") }},
			{Name: "fine", Run: func(ctx context.Context) error { return nil }},
		})
		Expect(errs[0]).To(MatchError(ContainSubstring("panicked")))
		Expect(errs[1]).NotTo(HaveOccurred())
	})

	It("bounds each job by the configured timeout", func() {
		short := scheduler.NewPool(scheduler.Config{MaxWorkers: 1, JobTimeout: 20 * time.Millisecond}, logger.Discard())
		defer short.Shutdown()

		errs := short.RunAll(context.Background(), []scheduler.Job{{Name: "slow", Run: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}}})
		Expect(errs[0]).To(MatchError(context.DeadlineExceeded))
	})

	It("refuses work after shutdown", func() {
		closed := scheduler.NewPool(scheduler.Config{MaxWorkers: 1, JobQueueSize: 1}, logger.Discard())
		closed.Shutdown()

		errs := closed.RunAll(context.Background(), []scheduler.Job{
			{Name: "a", Run: func(ctx context.Context) error { return nil }},
			{Name: "b", Run: func(ctx context.Context) error { return nil }},
			{Name: "c", Run: func(ctx context.Context) error { return nil }},
		})
		Expect(errs).To(HaveLen(3))
		Expect(errs[2]).To(MatchError(scheduler.ErrPoolClosed))
	})
})

var _ = Describe("Scheduler", func() {
	It("runs the task immediately and then on every tick until cancelled", func() {
		var runs int32
		s := scheduler.New("test", 10*time.Millisecond, func(ctx context.Context) error {
			atomic.AddInt32(&runs, 1)
			return errors.New("ignored")
		}, logger.Discard())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			s.Run(ctx)
			close(done)
		}()

		Eventually(func() int32 { return atomic.LoadInt32(&runs) }).Should(BeNumerically(">=", 3))
		cancel()
		Eventually(done).Should(BeClosed())
	})

	It("returns the task error from Tick", func() {
		s := scheduler.New("tick", time.Minute, func(ctx context.Context) error { return errors.New("nope") }, logger.Discard())
		Expect(s.Tick(context.Background())).To(MatchError("nope"))
	})
})
