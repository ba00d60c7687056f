package mock

import (
	"context"

	"github.com/schedulelua/luabot"
)

var (
	_ luabot.Fetcher     = (*Fetcher)(nil)
	_ luabot.RateLimiter = (*RateLimiter)(nil)
)

// Fetcher is a mock implementation of luabot.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// RateLimiter is a mock implementation of luabot.RateLimiter.
type RateLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (r *RateLimiter) Wait(ctx context.Context, host string) error {
	return r.WaitFn(ctx, host)
}
