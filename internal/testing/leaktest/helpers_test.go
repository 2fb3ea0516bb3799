package leaktest

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// recordingTB captures failures instead of failing the enclosing test
type recordingTB struct {
	testing.TB
	mu     sync.Mutex
	failed bool
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Errorf(string, ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = true
}

func TestGoroutineChecker_StoppedGoroutinesPass(t *testing.T) {
	CheckNoGoroutineLeak(t, func() {
		done := make(chan struct{})
		for i := 0; i < 5; i++ {
			go func() { <-done }()
		}
		close(done)
	})
}

func TestGoroutineChecker_WaitsForSlowExit(t *testing.T) {
	CheckNoGoroutineLeak(t, func() {
		go time.Sleep(100 * time.Millisecond)
	})
}

func TestGoroutineChecker_DetectsLeak(t *testing.T) {
	rec := &recordingTB{TB: t}
	stop := make(chan struct{})
	defer close(stop)

	checker := NewGoroutineChecker(rec)
	go func() { <-stop }()
	checker.Check(0)

	assert.True(t, rec.failed)
}

func TestGoroutineChecker_Tolerance(t *testing.T) {
	rec := &recordingTB{TB: t}
	stop := make(chan struct{})
	defer close(stop)

	checker := NewGoroutineChecker(rec)
	go func() { <-stop }()
	checker.Check(1)

	assert.False(t, rec.failed)
}

func TestCheckNoMemoryLeak_TransientAllocation(t *testing.T) {
	CheckNoMemoryLeak(t, 5, func() {
		buf := make([]byte, 8<<20)
		buf[0] = 1
	})
}
