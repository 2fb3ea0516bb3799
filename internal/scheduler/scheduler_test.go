package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Cleo-11/OceanX/internal/testing/leaktest"
	"github.com/Cleo-11/OceanX/internal/worker"
)

type countingJob struct {
	runs    atomic.Int32
	running atomic.Int32
	maxSeen atomic.Int32
	hold    time.Duration
}

func (j *countingJob) Process(ctx context.Context) error {
	n := j.running.Add(1)
	defer j.running.Add(-1)
	for {
		m := j.maxSeen.Load()
		if n <= m || j.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	if j.hold > 0 {
		time.Sleep(j.hold)
	}
	j.runs.Add(1)
	return nil
}

func TestScheduler_RunsJobPeriodically(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start()
	defer pool.Stop()

	job := &countingJob{}
	s := New(pool)
	s.Schedule("respawn-sweep", 10*time.Millisecond, job)

	assert.Eventually(t, func() bool { return job.runs.Load() >= 3 }, time.Second, 5*time.Millisecond)

	s.Stop()
	after := job.runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, job.runs.Load(), after+1, "no ticks after Stop")
}

func TestScheduler_ImmediateRun(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start()
	defer pool.Stop()

	job := &countingJob{}
	s := New(pool)
	defer s.Stop()
	s.Schedule("journal-cleanup", time.Hour, job, WithImmediateRun())

	assert.Eventually(t, func() bool { return job.runs.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_NoOverlappingRuns(t *testing.T) {
	pool := worker.NewPool(4, 16)
	pool.Start()
	defer pool.Stop()

	job := &countingJob{hold: 30 * time.Millisecond}
	s := New(pool)
	s.Schedule("slow-sweep", 2*time.Millisecond, job)

	assert.Eventually(t, func() bool { return job.runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	s.Stop()

	assert.Equal(t, int32(1), job.maxSeen.Load(), "a slow job is never run concurrently with itself")
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	pool := worker.NewPool(1, 1)
	s := New(pool)
	s.Schedule("a", time.Hour, &countingJob{})
	s.Stop()
	assert.NotPanics(t, s.Stop)
}

func TestScheduler_StopReleasesTickers(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		pool := worker.NewPool(1, 4)
		pool.Start()

		s := New(pool)
		s.Schedule("a", time.Hour, &countingJob{})
		s.Schedule("b", time.Hour, &countingJob{})

		s.Stop()
		pool.Stop()
	})
}
