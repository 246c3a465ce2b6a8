package moderation

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	slowmodeCacheSize = 10_000
	slowmodeCacheTTL  = 10 * time.Minute
)

type slowmodeBucket struct {
	interval time.Duration
	limiter  *rate.Limiter
}

// Slowmode lets every chat member post one message per interval.
type Slowmode struct {
	mu      sync.Mutex
	buckets *expirable.LRU[ChatUser, *slowmodeBucket]
}

func NewSlowmode() *Slowmode {
	return &Slowmode{
		buckets: expirable.NewLRU[ChatUser, *slowmodeBucket](slowmodeCacheSize, nil, slowmodeCacheTTL),
	}
}

// Allow reports whether a message sent at now fits the interval. A zero interval allows everything.
func (s *Slowmode) Allow(key ChatUser, now time.Time, interval time.Duration) bool {
	if interval <= 0 {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets.Get(key)
	if !ok || b.interval != interval {
		b = &slowmodeBucket{
			interval: interval,
			limiter:  rate.NewLimiter(rate.Every(interval), 1),
		}
	}
	// re-adding refreshes the TTL for active members
	s.buckets.Add(key, b)
	return b.limiter.AllowN(now, 1)
}
