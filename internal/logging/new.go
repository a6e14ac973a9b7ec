package logging

import (
	"io"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logging backend.
type Options struct {
	// File, when set, routes logs to a rotating JSON file through zap.
	File string
	// Level is one of debug, info, warn, error.
	Level string
	// Console receives slog text output when File is empty.
	Console io.Writer
}

// New returns a Logger and a flush func to call before exit.
//
// The interactive screens own stdout, so without a log file only warnings
// and errors reach the console.
func New(opts Options) (Logger, func() error) {
	if opts.File != "" {
		z := zap.New(newFileCore(opts.File, parseZapLevel(opts.Level)),
			zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
		zl := NewZapLogger(z)
		return zl, zl.Sync
	}

	h := slog.NewTextHandler(opts.Console, &slog.HandlerOptions{Level: consoleLevel(opts.Level)})
	return NewSlogLogger(slog.New(h)), func() error { return nil }
}

func consoleLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Nop discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
