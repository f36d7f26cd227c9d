package logging

import (
	"fmt"

	"go.uber.org/atomic"
	"go.uber.org/zap/zapcore"
)

// Level is the severity of a log entry. A logger writes entries at or above its level.
type Level int32

// Numbered like zapcore.Level.
const (
	DEBUG Level = iota - 1
	INFO
	WARN
	ERROR
)

// AsZap converts the Level to a zapcore.Level.
func (level Level) AsZap() zapcore.Level {
	return zapcore.Level(level)
}

func (level Level) String() string {
	if level < DEBUG || level > ERROR {
		return fmt.Sprintf("Level(%d)", int32(level))
	}
	return level.AsZap().CapitalString()
}

// AtomicLevel is a level that can be read and changed concurrently.
type AtomicLevel struct {
	val *atomic.Int32
}

// NewAtomicLevelAt returns an AtomicLevel set to level.
func NewAtomicLevelAt(level Level) AtomicLevel {
	return AtomicLevel{val: atomic.NewInt32(int32(level))}
}

// Set changes the level.
func (l AtomicLevel) Set(level Level) {
	l.val.Store(int32(level))
}

// Get returns the level.
func (l AtomicLevel) Get() Level {
	return Level(l.val.Load())
}
