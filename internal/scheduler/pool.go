package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var ErrPoolClosed = errors.New("worker pool is shut down")

// Job is one unit of background work.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

type task struct {
	job    Job
	ctx    context.Context
	index  int
	result chan<- jobResult
}

type jobResult struct {
	index int
	err   error
}

type Worker struct {
	ID         int
	WorkerPool chan chan task
	JobChannel chan task
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan task, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan task),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(task)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-ctx.Done():
				return
			}

			select {
			case t := <-w.JobChannel:
				w.Logger.Debug("worker processing job", "worker_id", w.ID, "job", t.job.Name)
				processFunc(t)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type Config struct {
	MaxWorkers   int
	JobQueueSize int
	JobTimeout   time.Duration
}

// Pool runs jobs on a fixed set of workers fed by a single dispatcher.
type Pool struct {
	logger     *slog.Logger
	jobTimeout time.Duration

	jobQueue   chan task
	workerPool chan chan task
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewPool(config Config, logger *slog.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	jobTimeout := config.JobTimeout
	if jobTimeout <= 0 {
		jobTimeout = 10 * time.Second
	}

	p := &Pool{
		logger:     logger,
		jobTimeout: jobTimeout,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan task, jobQueueSize),
		workerPool: make(chan chan task, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}
	p.start()
	return p
}

func (p *Pool) start() {
	p.once.Do(func() {
		for i := 0; i < p.maxWorkers; i++ {
			NewWorker(i, p.workerPool, p.logger).Start(p.ctx, &p.wg, p.process)
		}

		p.wg.Add(1)
		go p.dispatch()

		p.logger.Info("worker pool started",
			"max_workers", p.maxWorkers,
			"queue_size", cap(p.jobQueue))
	})
}

func (p *Pool) dispatch() {
	defer p.wg.Done()

	for {
		select {
		case t := <-p.jobQueue:
			select {
			case jobChannel := <-p.workerPool:
				select {
				case jobChannel <- t:
				case <-p.ctx.Done():
					return
				}
			case <-p.ctx.Done():
				return
			}
		case <-p.ctx.Done():
			p.logger.Debug("dispatcher shutting down")
			return
		}
	}
}

func (p *Pool) process(t task) {
	ctx, cancel := context.WithTimeout(t.ctx, p.jobTimeout)
	defer cancel()

	err := runSafely(ctx, t.job)
	if err != nil {
		p.logger.Warn("job failed", "job", t.job.Name, "error", err)
	}
	t.result <- jobResult{index: t.index, err: err}
}

func runSafely(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name, r)
		}
	}()
	return job.Run(ctx)
}

// RunAll queues every job and waits for all of them. The returned slice is
// indexed like jobs; nil means the job succeeded.
func (p *Pool) RunAll(ctx context.Context, jobs []Job) []error {
	errs := make([]error, len(jobs))
	if p.ctx.Err() != nil {
		for i := range errs {
			errs[i] = ErrPoolClosed
		}
		return errs
	}
	results := make(chan jobResult, len(jobs))

	submitted := 0
	for i, job := range jobs {
		t := task{job: job, ctx: ctx, index: i, result: results}
		select {
		case p.jobQueue <- t:
			submitted++
			continue
		case <-ctx.Done():
			errs[i] = ctx.Err()
		case <-p.ctx.Done():
			errs[i] = ErrPoolClosed
		}
		for j := i + 1; j < len(jobs); j++ {
			errs[j] = errs[i]
		}
		break
	}

	pending := make(map[int]bool, submitted)
	for i := 0; i < submitted; i++ {
		pending[i] = true
	}
	for len(pending) > 0 {
		select {
		case r := <-results:
			errs[r.index] = r.err
			delete(pending, r.index)
		case <-p.ctx.Done():
			for i := range pending {
				errs[i] = ErrPoolClosed
			}
			return errs
		}
	}
	return errs
}

func (p *Pool) Shutdown() {
	p.logger.Info("shutting down worker pool")
	p.cancel()
	p.wg.Wait()
	p.logger.Info("worker pool shutdown complete")
}
