package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/schedulelua/luabot"
)

// Ensure LoggingPackageRegistry implements luabot.PackageRegistry.
var _ luabot.PackageRegistry = (*LoggingPackageRegistry)(nil)

// LoggingPackageRegistry wraps a PackageRegistry with logging.
type LoggingPackageRegistry struct {
	next   luabot.PackageRegistry
	logger *slog.Logger
}

// NewLoggingPackageRegistry creates a new LoggingPackageRegistry.
func NewLoggingPackageRegistry(next luabot.PackageRegistry, logger *slog.Logger) *LoggingPackageRegistry {
	return &LoggingPackageRegistry{next: next, logger: logger}
}

// Package delegates to the wrapped registry and logs the latest version seen.
func (r *LoggingPackageRegistry) Package(ctx context.Context) (pkg *luabot.Package, err error) {
	defer func(begin time.Time) {
		var latest string
		if pkg != nil && pkg.Latest != nil {
			latest = pkg.Latest.VersionNumber
		}
		r.logger.Debug("registry package",
			"latest", latest,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Package(ctx)
}

// Version delegates to the wrapped registry and logs the operation.
func (r *LoggingPackageRegistry) Version(ctx context.Context, version string) (v *luabot.PackageVersion, err error) {
	defer func(begin time.Time) {
		r.logger.Debug("registry version",
			"version", version,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Version(ctx, version)
}

// Changelog delegates to the wrapped registry and logs the operation.
func (r *LoggingPackageRegistry) Changelog(ctx context.Context, version string) (changelog string, err error) {
	defer func(begin time.Time) {
		r.logger.Debug("registry changelog",
			"version", version,
			"bytes", len(changelog),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Changelog(ctx, version)
}
