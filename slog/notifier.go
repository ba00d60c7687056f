package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/schedulelua/luabot"
)

// Ensure LoggingNotifier implements luabot.Notifier.
var _ luabot.Notifier = (*LoggingNotifier)(nil)

// LoggingNotifier wraps a Notifier with logging.
type LoggingNotifier struct {
	next   luabot.Notifier
	logger *slog.Logger
}

// NewLoggingNotifier creates a new LoggingNotifier.
func NewLoggingNotifier(next luabot.Notifier, logger *slog.Logger) *LoggingNotifier {
	return &LoggingNotifier{next: next, logger: logger}
}

// Notify delegates to the wrapped notifier and logs the operation.
func (n *LoggingNotifier) Notify(ctx context.Context, release *luabot.Release) (err error) {
	defer func(begin time.Time) {
		n.logger.Info("notify",
			"version", release.Version,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return n.next.Notify(ctx, release)
}
