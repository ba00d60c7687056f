package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/schedulelua/luabot"
)

// Ensure Fetcher implements luabot.Fetcher at compile time.
var _ luabot.Fetcher = (*Fetcher)(nil)

// DefaultFetchTimeout bounds one page load.
const DefaultFetchTimeout = 10 * time.Second

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Use it for documentation sites that build their content with JavaScript.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager  *BrowserManager
	timeout  time.Duration
	maxPages int64
	browser  []ManagerOption
	closed   atomic.Bool
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout sets the per-page load timeout.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRecycleAfter sets how many pages are loaded before the browser is
// restarted.
func WithRecycleAfter(n int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// WithBrowserOptions passes options to the BrowserManager.
func WithBrowserOptions(opts ...ManagerOption) FetcherOption {
	return func(f *Fetcher) {
		f.browser = append(f.browser, opts...)
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout, maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(append([]ManagerOption{WithMaxPages(f.maxPages)}, f.browser...)...)
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", luabot.Errorf(luabot.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser := f.manager.Browser()
	if browser == nil {
		return "", luabot.Errorf(luabot.EINVALID, "fetcher is closed")
	}
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", luabot.WrapError(luabot.EFETCH, err, "Could not open a browser page.")
	}
	defer page.Close()
	defer f.manager.IncrementPageCount()

	page = page.Context(ctx).Timeout(f.timeout)

	if err := page.Navigate(url); err != nil {
		return "", luabot.WrapError(luabot.EFETCH, err, "Failed to load %s.", url)
	}
	if err := page.WaitLoad(); err != nil {
		return "", luabot.WrapError(luabot.EFETCH, err, "Failed to load %s.", url)
	}

	html, err := page.HTML()
	if err != nil {
		return "", luabot.WrapError(luabot.EFETCH, err, "Failed to read %s.", url)
	}
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
