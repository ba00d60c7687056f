package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/schedulelua/luabot"
	"golang.org/x/time/rate"
)

// DefaultPageInterval is the spacing between page saves during a bulk scrape.
const DefaultPageInterval = 5 * time.Second

var _ luabot.RateLimiter = (*HostLimiter)(nil)

// HostLimiter spaces operations per host using token buckets with a burst
// of one: the first Wait for a host returns at once, later ones are spaced
// by the interval.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	interval time.Duration
}

// NewHostLimiter creates a HostLimiter allowing one operation per interval
// for each host.
func NewHostLimiter(interval time.Duration) *HostLimiter {
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
	}
}

// Wait blocks until the limiter allows another operation for host.
// Returns an error if the context is canceled before the wait completes.
func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	h.mu.Lock()
	limiter, ok := h.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(h.interval), 1)
		h.limiters[host] = limiter
	}
	h.mu.Unlock()

	return limiter.Wait(ctx)
}
