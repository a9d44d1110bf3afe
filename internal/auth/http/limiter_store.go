package http

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// limiterSweepInterval is how often stale limiters are swept.
	limiterSweepInterval = 5 * time.Minute

	// limiterMaxIdle is how long a limiter may sit unused before the sweep
	// drops it.
	limiterMaxIdle = time.Hour
)

// limiterStore holds token bucket limiters keyed by caller identity, either a
// client ID or an IP address. Idle entries are dropped in the background so
// client and IP churn cannot grow the map without bound.
type limiterStore struct {
	limiters sync.Map // map[string]*limiterEntry
	rps      float64
	burst    int
}

// limiterEntry pairs a rate limiter with its last access time for the sweep.
type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// newLimiterStore creates a store and starts its background sweep.
func newLimiterStore(rps float64, burst int) *limiterStore {
	store := &limiterStore{rps: rps, burst: burst}
	go store.sweepLoop(context.Background())
	return store
}

// get returns the limiter for the key, creating one on first use. Concurrent
// first uses of the same key converge on a single limiter.
func (s *limiterStore) get(key string) *rate.Limiter {
	if val, ok := s.limiters.Load(key); ok {
		entry := val.(*limiterEntry)
		entry.mu.Lock()
		entry.lastAccess = time.Now()
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &limiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: time.Now(),
	}
	actual, _ := s.limiters.LoadOrStore(key, entry)
	return actual.(*limiterEntry).limiter
}

// removeStale drops every limiter that has not been used since the threshold.
func (s *limiterStore) removeStale(threshold time.Time) {
	s.limiters.Range(func(key, value any) bool {
		entry := value.(*limiterEntry)
		entry.mu.Lock()
		stale := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if stale {
			s.limiters.Delete(key)
		}
		return true
	})
}

// sweepLoop periodically removes stale limiters until the context is done.
func (s *limiterStore) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.removeStale(time.Now().Add(-limiterMaxIdle))
		}
	}
}

// retryAfterSeconds estimates how long the caller should wait before the next
// attempt, rounded up to at least one second.
func retryAfterSeconds(limiter *rate.Limiter) int {
	reservation := limiter.Reserve()
	delay := reservation.Delay()
	reservation.Cancel()

	seconds := int(math.Ceil(delay.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}
