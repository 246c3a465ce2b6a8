package moderation

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	floodCacheSize = 10_000
	floodCacheTTL  = 10 * time.Minute
)

// FloodDetector keeps a trailing window of message timestamps per chat member.
type FloodDetector struct {
	mu      sync.Mutex
	windows *expirable.LRU[ChatUser, []time.Time]
}

func NewFloodDetector() *FloodDetector {
	return &FloodDetector{
		windows: expirable.NewLRU[ChatUser, []time.Time](floodCacheSize, nil, floodCacheTTL),
	}
}

// Hit records a message at now and reports whether more than limit messages
// fall into the trailing window. A triggered window is cleared.
func (d *FloodDetector) Hit(key ChatUser, now time.Time, limit int, window time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	stamps, _ := d.windows.Get(key)
	cutoff := now.Add(-window)
	kept := make([]time.Time, 0, len(stamps)+1)
	for _, ts := range stamps {
		if !ts.Before(cutoff) {
			kept = append(kept, ts)
		}
	}
	kept = append(kept, now)

	if len(kept) > limit {
		d.windows.Remove(key)
		return true
	}
	d.windows.Add(key, kept)
	return false
}
