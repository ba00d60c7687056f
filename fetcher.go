package luabot

import "context"

// Fetcher retrieves the raw body of a URL.
type Fetcher interface {
	// Fetch performs a single bounded-time retrieval of url and returns the
	// body text. Transport failures and non-2xx responses return EFETCH.
	// Fetch never retries; callers decide whether to try again.
	Fetch(ctx context.Context, url string) (body string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// RateLimiter spaces out operations against a single host.
type RateLimiter interface {
	// Wait blocks until the limiter allows another operation for host.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error
}
