// Package logging contains the structured logger used throughout aikido. Entries are built as zap
// entries and handed to every Appender of the logger.
package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Logger is the logging interface handed to planners, solvers and commands.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	// CDebugw logs at debug level, or regardless of level when ctx is in debug mode.
	CDebugw(ctx context.Context, msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	// Fatal logs at error level and exits the process.
	Fatal(args ...interface{})

	// Sublogger returns a logger named "<parent>.<subname>" that writes to the parent's appenders.
	Sublogger(subname string) Logger
	AddAppender(appender Appender)
	SetLevel(level Level)
	Sync() error
}

// NewLogger returns a logger that writes Info+ entries to stdout in UTC.
func NewLogger(name string) Logger {
	return &impl{name: name, level: NewAtomicLevelAt(INFO), inUTC: true, appenders: []Appender{NewStdoutAppender()}}
}

// NewTestLogger returns a logger that writes Debug+ entries to tb.
func NewTestLogger(tb testing.TB) Logger {
	logger, _ := NewObservedTestLogger(tb)
	return logger
}

// NewObservedTestLogger is like NewTestLogger but also keeps every entry in memory.
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	core, observed := observer.New(zap.LevelEnablerFunc(zapcore.DebugLevel.Enabled))
	return &impl{level: NewAtomicLevelAt(DEBUG), appenders: []Appender{NewTestAppender(tb), core}}, observed
}
