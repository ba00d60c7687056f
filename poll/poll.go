// Package poll checks the package registry for new releases on an interval
// and announces them.
package poll

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/schedulelua/luabot"
	"golang.org/x/sync/singleflight"
)

// DefaultInterval is the time between scheduled checks.
const DefaultInterval = 30 * time.Minute

// Outcome describes what a check did.
type Outcome int

const (
	// Unchanged means the latest version was already announced.
	Unchanged Outcome = iota
	// Announced means a new release was announced and recorded.
	Announced
)

func (o Outcome) String() string {
	if o == Announced {
		return "announced"
	}
	return "unchanged"
}

// Result is the outcome of one check.
type Result struct {
	Outcome Outcome
	Version string
	Release *luabot.Release
}

// Poller runs release checks. Scheduled and manual checks share a
// single-flight guard: a check requested while another is in flight waits
// for and returns that check's result.
type Poller struct {
	Registry luabot.PackageRegistry
	Versions luabot.VersionStore
	Notifier luabot.Notifier
	Interval time.Duration
	Logger   *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	group   singleflight.Group
	mu      sync.Mutex
	running bool
}

// Running reports whether Run is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Run checks immediately and then once per interval until ctx is done.
// Failed checks are logged and do not stop the loop. Calling Run while it
// is already running returns immediately.
func (p *Poller) Run(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := p.Check(ctx); err != nil && ctx.Err() == nil {
			p.logger().Error("update check failed", "err", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Check runs one check, joining an in-flight one if there is any.
func (p *Poller) Check(ctx context.Context) (*Result, error) {
	v, err, shared := p.group.Do("check", func() (any, error) {
		return p.check(ctx)
	})
	if shared {
		p.logger().Debug("joined in-flight update check")
	}
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

func (p *Poller) check(ctx context.Context) (*Result, error) {
	logger := p.logger()

	rec, err := p.Versions.LoadVersionRecord(ctx)
	if err != nil {
		return nil, err
	}

	pkg, err := p.Registry.Package(ctx)
	if err != nil {
		return nil, err
	}
	if pkg.Latest == nil || pkg.Latest.VersionNumber == "" {
		return nil, luabot.Errorf(luabot.EPARSE, "Package metadata has no latest version.")
	}
	latest := pkg.Latest.VersionNumber

	if latest == rec.LastVersion {
		logger.Info("no new release", "version", latest)
		rec.LastChecked = p.now()
		if err := p.Versions.SaveVersionRecord(ctx, rec); err != nil {
			return nil, err
		}
		return &Result{Outcome: Unchanged, Version: latest}, nil
	}

	ver, err := p.Registry.Version(ctx, latest)
	if err != nil {
		logger.Warn("version details unavailable, using package summary", "version", latest, "err", err)
		ver = pkg.Latest
	}

	changelog, err := p.Registry.Changelog(ctx, latest)
	if err != nil {
		logger.Warn("changelog unavailable", "version", latest, "err", err)
		changelog = ""
	}

	release := luabot.NewRelease(pkg, ver, changelog)
	if err := p.Notifier.Notify(ctx, release); err != nil {
		return nil, err
	}

	previous := rec.LastVersion
	rec = &luabot.VersionRecord{LastVersion: latest, LastChecked: p.now()}
	if err := p.Versions.SaveVersionRecord(ctx, rec); err != nil {
		return nil, err
	}
	logger.Info("announced release", "version", latest, "previous", previous)
	return &Result{Outcome: Announced, Version: latest, Release: release}, nil
}

func (p *Poller) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Poller) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}
