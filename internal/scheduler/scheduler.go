// Package scheduler feeds periodic jobs into a worker pool.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Cleo-11/OceanX/internal/logger"
	"github.com/Cleo-11/OceanX/internal/worker"
)

const (
	LogMsgJobSkipped  = "Scheduled job skipped, worker queue full"
	LogMsgJobInFlight = "Scheduled job skipped, previous run still in flight"
)

// Option adjusts a single schedule
type Option func(*schedule)

// WithImmediateRun enqueues the first run as soon as the job is scheduled
// instead of one interval later
func WithImmediateRun() Option {
	return func(s *schedule) { s.immediate = true }
}

type schedule struct {
	name      string
	interval  time.Duration
	job       worker.Job
	immediate bool
	inFlight  atomic.Bool
}

// Process runs the wrapped job and clears the in-flight mark
func (s *schedule) Process(ctx context.Context) error {
	defer s.inFlight.Store(false)
	return s.job.Process(ctx)
}

// Scheduler enqueues jobs on fixed intervals. A job never has more than one
// run queued or executing at a time.
type Scheduler struct {
	pool     *worker.Pool
	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{pool: pool, quit: make(chan struct{})}
}

// Schedule starts ticking job every interval until Stop
func (s *Scheduler) Schedule(name string, interval time.Duration, job worker.Job, opts ...Option) {
	sc := &schedule{name: name, interval: interval, job: job}
	for _, opt := range opts {
		opt(sc)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if sc.immediate {
			s.fire(sc)
		}

		ticker := time.NewTicker(sc.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.fire(sc)
			case <-s.quit:
				return
			}
		}
	}()
}

func (s *Scheduler) fire(sc *schedule) {
	log := logger.FromContext(context.Background())
	if !sc.inFlight.CompareAndSwap(false, true) {
		log.Debug(LogMsgJobInFlight, "job", sc.name)
		return
	}
	if !s.pool.TryEnqueue(sc) {
		sc.inFlight.Store(false)
		log.Warn(LogMsgJobSkipped, "job", sc.name)
	}
}

// Stop ends every schedule. Runs already queued still execute on the pool.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	s.wg.Wait()
}
