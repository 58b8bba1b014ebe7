package search

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// QueryThrottle spaces outbound searches for the same query at least interval apart.
// Distinct queries do not wait on each other.
type QueryThrottle struct {
	mu       sync.Mutex
	interval time.Duration
	limiters map[string]*queryLimiter
	done     chan struct{}
	stopOnce sync.Once
}

type queryLimiter struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// NewQueryThrottle creates a throttle and starts a janitor that drops idle limiters.
func NewQueryThrottle(interval time.Duration) *QueryThrottle {
	t := &QueryThrottle{
		interval: interval,
		limiters: make(map[string]*queryLimiter),
		done:     make(chan struct{}),
	}
	if interval > 0 {
		go t.janitor()
	}
	return t
}

// Wait blocks until a search for query may be issued or ctx is done.
func (t *QueryThrottle) Wait(ctx context.Context, query string) error {
	if t.interval <= 0 {
		return nil
	}
	return t.limiter(CacheKey(query)).Wait(ctx)
}

func (t *QueryThrottle) limiter(key string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()
	ql, ok := t.limiters[key]
	if !ok {
		ql = &queryLimiter{limiter: rate.NewLimiter(rate.Every(t.interval), 1)}
		t.limiters[key] = ql
	}
	ql.lastUsed = time.Now()
	return ql.limiter
}

// Len returns the number of queries currently tracked.
func (t *QueryThrottle) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.limiters)
}

// Stop ends the janitor goroutine.
func (t *QueryThrottle) Stop() {
	t.stopOnce.Do(func() { close(t.done) })
}

func (t *QueryThrottle) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			t.sweep(time.Now().Add(-time.Minute))
		}
	}
}

func (t *QueryThrottle) sweep(idleBefore time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, ql := range t.limiters {
		if ql.lastUsed.Before(idleBefore) {
			delete(t.limiters, key)
		}
	}
}
