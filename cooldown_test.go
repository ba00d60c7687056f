package luabot_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/schedulelua/luabot"
	"github.com/stretchr/testify/assert"
)

func TestCooldowns(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	c := luabot.NewCooldowns(time.Minute)

	assert.False(t, c.Active("chan-1", now))
	assert.True(t, c.Allow("chan-1", now))

	assert.True(t, c.Active("chan-1", now.Add(59*time.Second)))
	assert.False(t, c.Allow("chan-1", now.Add(59*time.Second)))
	assert.False(t, c.Active("chan-1", now.Add(time.Minute)))
	assert.False(t, c.Active("chan-2", now))
	assert.True(t, c.Allow("chan-1", now.Add(time.Minute)))
}

func TestCooldowns_AllowConcurrent(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	c := luabot.NewCooldowns(time.Minute)

	var allowed atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if c.Allow("chan-1", now) {
				allowed.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), allowed.Load())
}
