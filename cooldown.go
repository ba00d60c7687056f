package luabot

import (
	"sync"
	"time"
)

// Cooldowns tracks, per key, when an action last fired and refuses to fire
// it again until the period has elapsed. The zero value is not usable; use
// NewCooldowns.
type Cooldowns struct {
	mu     sync.Mutex
	period time.Duration
	last   map[string]time.Time
}

// NewCooldowns returns a store enforcing period between firings per key.
func NewCooldowns(period time.Duration) *Cooldowns {
	return &Cooldowns{period: period, last: make(map[string]time.Time)}
}

// Active reports whether key fired less than period before now.
func (c *Cooldowns) Active(key string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	last, ok := c.last[key]
	return ok && now.Sub(last) < c.period
}

// Allow records that key fires at now and reports true, unless key is still
// cooling down. Concurrent callers for one key get at most one true per
// period.
func (c *Cooldowns) Allow(key string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if last, ok := c.last[key]; ok && now.Sub(last) < c.period {
		return false
	}
	c.last[key] = now
	return true
}
