// Package klog is the narrow logging interface the kernel core depends
// on. spec.md names "the klog sink" as an out-of-scope external
// collaborator with a named interface only; this package is that
// interface, plus a concrete zap-backed implementation so the rest of
// the tree compiles and can be exercised end to end.
package klog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors spec.md §6's build-flag vocabulary for log verbosity.
type Level int

const (
	LevelTrace Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelPanic
)

// ParseLevel maps the §6 flag names onto a Level, defaulting to Info for
// anything unrecognized.
func ParseLevel(s string) Level {
	switch s {
	case "trace":
		return LevelTrace
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	case "panic":
		return LevelPanic
	default:
		return LevelInfo
	}
}

// Sink is the logging surface consumed by internal/event and
// internal/kcall. Neither package imports zap directly.
type Sink interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// zapSink adapts zap.SugaredLogger to Sink.
type zapSink struct {
	l *zap.SugaredLogger
}

// New builds a Sink at the given Level, synchronous console output
// (matching the teacher's plain stderr logging rather than a
// production JSON pipeline, since this is a kernel binary with no log
// aggregator downstream in scope).
func New(level Level) Sink {
	zl := zapLevel(level)
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zl)
	logger, err := cfg.Build()
	if err != nil {
		// Fall back to a no-op logger rather than panic: a broken log
		// sink must never take the kernel down.
		logger = zap.NewNop()
	}
	return &zapSink{l: logger.Sugar()}
}

func zapLevel(l Level) zapcore.Level {
	switch l {
	case LevelTrace:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelPanic:
		return zapcore.PanicLevel
	default:
		return zapcore.InfoLevel
	}
}

func (z *zapSink) Debugf(format string, args ...any) { z.l.Debugf(format, args...) }
func (z *zapSink) Infof(format string, args ...any)  { z.l.Infof(format, args...) }
func (z *zapSink) Warnf(format string, args ...any)  { z.l.Warnf(format, args...) }
func (z *zapSink) Errorf(format string, args ...any) { z.l.Errorf(format, args...) }

// Noop returns a Sink that discards everything, for tests.
func Noop() Sink { return &zapSink{l: zap.NewNop().Sugar()} }
