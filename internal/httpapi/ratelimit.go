package httpapi

import (
	"sync"
	"time"
)

// maxTrackedSenders caps the number of tracked senders so rotating source
// identifiers cannot exhaust memory.
const maxTrackedSenders = 4096

type senderWindow struct {
	start time.Time
	count int
}

// SenderRateLimiter bounds webhook hits per sender within a sliding window.
// Safe for concurrent use.
type SenderRateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	maxHits int
	entries map[string]*senderWindow
}

func NewSenderRateLimiter(maxHitsPerMinute int) *SenderRateLimiter {
	if maxHitsPerMinute <= 0 {
		maxHitsPerMinute = 30
	}
	return &SenderRateLimiter{
		window:  time.Minute,
		maxHits: maxHitsPerMinute,
		entries: make(map[string]*senderWindow),
	}
}

// Allow reports whether the sender is within its per-minute budget.
// Stale entries are pruned when the tracked-sender cap is reached.
func (r *SenderRateLimiter) Allow(sender string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	if len(r.entries) >= maxTrackedSenders {
		for k, e := range r.entries {
			if now.Sub(e.start) >= r.window {
				delete(r.entries, k)
			}
		}
		for len(r.entries) >= maxTrackedSenders {
			for k := range r.entries {
				delete(r.entries, k)
				break
			}
		}
	}

	e, ok := r.entries[sender]
	if !ok || now.Sub(e.start) >= r.window {
		r.entries[sender] = &senderWindow{start: now, count: 1}
		return true
	}

	e.count++
	return e.count <= r.maxHits
}
