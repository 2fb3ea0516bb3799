package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/logger"
)

// IPRateLimiter is a token bucket per client IP. Idle buckets are evicted
// after DefaultLimiterIdleTTL, and at most DefaultLimiterCacheSize are kept.
type IPRateLimiter struct {
	mu             sync.Mutex
	limiters       *expirable.LRU[string, *rate.Limiter]
	limit          rate.Limit
	burst          int
	trustedProxies []string
}

// NewIPRateLimiter creates a limiter allowing perMinute requests per IP with the given burst
func NewIPRateLimiter(perMinute float64, burst int, trustedProxies []string) *IPRateLimiter {
	if perMinute <= 0 {
		perMinute = DefaultRequestsPerMinute
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &IPRateLimiter{
		limiters:       expirable.NewLRU[string, *rate.Limiter](DefaultLimiterCacheSize, nil, DefaultLimiterIdleTTL),
		limit:          rate.Limit(perMinute / 60.0),
		burst:          burst,
		trustedProxies: trustedProxies,
	}
}

func (l *IPRateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limiters.Get(ip); ok {
		// Re-add to refresh the idle TTL
		l.limiters.Add(ip, lim)
		return lim
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.limiters.Add(ip, lim)
	return lim
}

// Reserve takes a token for ip. When none is available it returns false and
// how long until one will be.
func (l *IPRateLimiter) Reserve(ip string, now time.Time) (bool, time.Duration) {
	lim := l.limiter(ip)
	if lim.AllowN(now, 1) {
		return true, 0
	}
	r := lim.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return false, delay
}

// Middleware rejects requests over budget with 429 and a rate_limited body
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r, l.trustedProxies)
		ok, wait := l.Reserve(ip, time.Now())
		if ok {
			next.ServeHTTP(w, r)
			return
		}

		retryMs := wait.Milliseconds()
		logger.FromContext(r.Context()).Warn(LogMsgRateLimited, "ip", ip, "path", r.URL.Path, "retry_after_ms", retryMs)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set(HeaderRetryAfter, strconv.FormatInt(int64(math.Ceil(wait.Seconds())), 10))
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code":    domain.ReasonRateLimited,
			"message": ErrMsgTooManyRequests,
			"context": map[string]any{"retryAfterMs": retryMs},
		})
	})
}
