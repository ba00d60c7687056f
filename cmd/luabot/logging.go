package main

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
)

// parseLevel maps a --log-level value to a slog level. Unknown values
// mean info.
func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// newLogger returns a logger writing colored text to stderr and, when
// file is non-nil, JSON records to file.
func newLogger(stderr io.Writer, file io.Writer, level slog.Level, noColor bool) *slog.Logger {
	var handler slog.Handler = tint.NewHandler(stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	})
	if file != nil {
		handler = slogmulti.Fanout(handler, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(handler)
}
