package admission

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore is a sharded sliding-window log held in process. Idle windows
// expire from the LRU after ttl, which keeps memory bounded.
type MemoryStore struct {
	shards []*memoryShard
}

type memoryShard struct {
	mu      sync.Mutex
	windows *expirable.LRU[string, *slidingWindow]
}

// slidingWindow holds admitted request times, oldest first
type slidingWindow struct {
	hits []time.Time
}

// NewMemoryStore creates a store with shardCount shards holding at most maxKeys
// windows in total. ttl should be at least the longest window used.
func NewMemoryStore(shardCount, maxKeys int, ttl time.Duration) *MemoryStore {
	if shardCount <= 0 {
		shardCount = DefaultShardCount
	}
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}
	perShard := maxKeys / shardCount
	if perShard < 1 {
		perShard = 1
	}

	s := &MemoryStore{shards: make([]*memoryShard, shardCount)}
	for i := range s.shards {
		s.shards[i] = &memoryShard{
			windows: expirable.NewLRU[string, *slidingWindow](perShard, nil, ttl),
		}
	}
	return s
}

// Allow implements Store
func (s *MemoryStore) Allow(_ context.Context, key string, limit int, window time.Duration, now time.Time) (Decision, error) {
	shard := s.shard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	w, ok := shard.windows.Get(key)
	if !ok {
		w = &slidingWindow{}
	}
	w.prune(now.Add(-window))

	var d Decision
	switch {
	case limit <= 0:
		d = Decision{RetryAfter: window}
	case len(w.hits) < limit:
		w.hits = append(w.hits, now)
		d = Decision{Allowed: true, Remaining: limit - len(w.hits)}
	default:
		d = Decision{RetryAfter: w.hits[0].Add(window).Sub(now)}
	}

	// Add refreshes the TTL so active windows are not evicted
	shard.windows.Add(key, w)
	return d, nil
}

// Len returns the number of tracked windows
func (s *MemoryStore) Len() int {
	n := 0
	for _, shard := range s.shards {
		n += shard.windows.Len()
	}
	return n
}

func (s *MemoryStore) shard(key string) *memoryShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// prune drops hits at or before cutoff
func (w *slidingWindow) prune(cutoff time.Time) {
	i := 0
	for i < len(w.hits) && !w.hits[i].After(cutoff) {
		i++
	}
	if i > 0 {
		w.hits = append(w.hits[:0], w.hits[i:]...)
	}
}
