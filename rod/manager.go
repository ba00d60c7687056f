package rod

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/schedulelua/luabot"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// browserProcess is one launched Chrome and the launcher that owns it.
type browserProcess struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func (p *browserProcess) pid() int {
	if p == nil || p.launcher == nil {
		return 0
	}
	return p.launcher.PID()
}

func (p *browserProcess) close() error {
	if p == nil {
		return nil
	}
	var err error
	if p.browser != nil {
		err = p.browser.Close()
	}
	if p.launcher != nil {
		p.launcher.Kill()
	}
	return err
}

// BrowserManager owns the headless browser used by Fetcher. Chrome's
// resident memory grows over a long documentation scrape, so the process is
// replaced after a fixed number of pages.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	current  *browserProcess
	recycles int

	served   atomic.Int64
	maxPages int64
	bin      string
	logger   *slog.Logger
	closed   atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages one browser process serves.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithBrowserBin runs the Chrome binary at path instead of looking one up.
func WithBrowserBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// WithLogger sets the logger that records launches and recycles.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(bm *BrowserManager) {
		bm.logger = logger
	}
}

// NewBrowserManager launches a headless Chrome.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(bm)
	}
	if bm.logger == nil {
		bm.logger = slog.Default()
	}

	proc, err := bm.launch()
	if err != nil {
		bm.logger.Error("browser launch failed", "bin", bm.bin, "error", err)
		return nil, err
	}
	bm.current = proc
	bm.logger.Debug("browser launched", "pid", proc.pid())
	return bm, nil
}

// Browser returns the browser for the next page, replacing the process
// first once it has served maxPages. Call IncrementPageCount after each page.
func (bm *BrowserManager) Browser() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.current == nil {
		return nil
	}
	if bm.maxPages > 0 && bm.served.Load() >= bm.maxPages {
		bm.recycle()
	}
	return bm.current.browser
}

// IncrementPageCount records one page served by the current browser.
func (bm *BrowserManager) IncrementPageCount() {
	bm.served.Add(1)
}

// Recycles returns how many times the browser process has been replaced.
func (bm *BrowserManager) Recycles() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.recycles
}

// Close releases browser resources. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	err := bm.current.close()
	bm.current = nil
	return err
}

// LauncherPID returns the process ID of the browser launcher, or 0 once
// closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.current.pid()
}

func (bm *BrowserManager) launch() (*browserProcess, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)
	if bm.bin != "" {
		l = l.Bin(bm.bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, luabot.WrapError(luabot.EINTERNAL, err, "Could not launch the browser.")
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, luabot.WrapError(luabot.EINTERNAL, err, "Could not connect to the browser.")
	}
	return &browserProcess{browser: browser, launcher: l}, nil
}

// recycle swaps in a fresh process. The old one stays in service when the
// launch fails. Must be called with mu held.
func (bm *BrowserManager) recycle() {
	served := bm.served.Load()
	old := bm.current
	oldPID := old.pid()

	proc, err := bm.launch()
	if err != nil {
		bm.logger.Warn("browser recycle failed, keeping current browser",
			"pages", served,
			"pid", oldPID,
			"error", err)
		return
	}

	if err := old.close(); err != nil {
		bm.logger.Debug("closing recycled browser", "pid", oldPID, "error", err)
	}
	bm.current = proc
	bm.recycles++
	bm.served.Store(0)
	bm.logger.Info("browser recycled",
		"pages", served,
		"old_pid", oldPID,
		"pid", proc.pid(),
		"recycles", bm.recycles)
}
