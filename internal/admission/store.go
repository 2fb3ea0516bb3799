package admission

import (
	"context"
	"time"
)

// Decision is the result of counting one request against a window
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Store counts requests per key over a sliding window. Implementations must be
// safe for concurrent use and must bound their memory.
type Store interface {
	// Allow records a request for key at now when the window has room and
	// reports whether it was admitted
	Allow(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (Decision, error)
}
