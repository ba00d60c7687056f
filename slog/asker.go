package slog

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/schedulelua/luabot"
)

// Ensure LoggingAsker implements luabot.Asker.
var _ luabot.Asker = (*LoggingAsker)(nil)

// LoggingAsker wraps an Asker with logging. Question text is not logged.
type LoggingAsker struct {
	next   luabot.Asker
	logger *slog.Logger
}

// NewLoggingAsker creates a new LoggingAsker.
func NewLoggingAsker(next luabot.Asker, logger *slog.Logger) *LoggingAsker {
	return &LoggingAsker{next: next, logger: logger}
}

// Ask delegates to the wrapped asker and logs the operation.
func (a *LoggingAsker) Ask(ctx context.Context, question string) (answer string, err error) {
	defer func(begin time.Time) {
		a.logger.Info("ask",
			"question_chars", utf8.RuneCountInString(question),
			"answer_chars", utf8.RuneCountInString(answer),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Ask(ctx, question)
}
