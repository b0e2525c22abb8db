package signal

import (
	"sync"
	"time"

	"github.com/dkeye/Roulette/internal/domain"
)

// QueueRateLimiter bounds join and skip requests per connection in a sliding window.
type QueueRateLimiter struct {
	mu       sync.Mutex
	history  map[domain.ConnectionID][]time.Time
	limit    int
	interval time.Duration
	now      func() time.Time
}

// NewQueueRateLimiter returns a limiter; a non-positive limit disables it.
func NewQueueRateLimiter(limit int, interval time.Duration) *QueueRateLimiter {
	return &QueueRateLimiter{
		history:  make(map[domain.ConnectionID][]time.Time),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

func (rl *QueueRateLimiter) Allow(id domain.ConnectionID) bool {
	if rl.limit <= 0 || rl.interval <= 0 {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[id]
	fresh := make([]time.Time, 0, len(attempts)+1)
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[id] = fresh
		return false
	}

	rl.history[id] = append(fresh, now)
	return true
}

// Forget drops the history of a closed connection.
func (rl *QueueRateLimiter) Forget(id domain.ConnectionID) {
	rl.mu.Lock()
	delete(rl.history, id)
	rl.mu.Unlock()
}
