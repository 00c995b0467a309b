package logger

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
)

// Logger is the logging contract shared by every pipeline component.
// Methods take a context first so call sites line up with the rest of
// the codebase, even though the default implementation ignores it.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

func parseLevel(s string) level {
	switch strings.ToLower(s) {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

type implLogger struct {
	logger *log.Logger
	min    level
}

// New creates a Logger writing to stdout at the given minimum level.
func New(minLevel string) Logger {
	return NewWithWriter(os.Stdout, minLevel)
}

// NewWithWriter creates a Logger writing to w. Tests use this to
// capture output.
func NewWithWriter(w io.Writer, minLevel string) Logger {
	return &implLogger{
		logger: log.New(w, "", log.LstdFlags),
		min:    parseLevel(minLevel),
	}
}

func (l *implLogger) logAt(lv level, prefix, msg string, args []interface{}) {
	if lv < l.min {
		return
	}
	l.logger.Printf(prefix+msg, args...)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.logAt(levelDebug, "[DEBUG] ", msg, args)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.logAt(levelInfo, "[INFO] ", msg, args)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.logAt(levelWarn, "[WARN] ", msg, args)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.logAt(levelError, "[ERROR] ", msg, args)
}

// Nop returns a Logger that discards everything. Handy in tests.
func Nop() Logger {
	return &implLogger{logger: log.New(io.Discard, "", 0), min: levelError + 1}
}
