// Package logger provides a lightweight, centralized logging facility
// with configurable verbosity levels.
//
// Design goals:
//   - Simple API (Errorf, Infof, Debugf, Tracef)
//   - Centralized verbosity control
//   - Zero formatting logic at call sites
//
// Verbosity levels (in increasing order):
//
//	Error < Info < Debug < Trace
//
// Example usage:
//
//	logger.Init("debug", "development")
//	logger.Infof("event=cycle_start stocks=%d", n)
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents a logging verbosity level.
// Higher values mean more verbose logging.
type Level int

const (
	Error Level = iota // Error logs only critical failures.
	Info               // Info logs high-level application progress.
	Debug              // Debug logs detailed diagnostic information.
	Trace              // Trace logs very fine-grained execution details.
)

// current holds the active verbosity level.
// Only messages with level <= current are logged.
var current Level = Info

// sugar is the zap backend. A development logger is installed lazily so the
// facade works in tests that never call Init.
var sugar *zap.SugaredLogger

// Init configures the zap backend. env selects the encoder profile:
// "production" gets JSON output, anything else gets the human-readable
// development encoder.
func Init(level string, env string) error {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	switch level {
	case "error":
		current = Error
	case "debug":
		current = Debug
	case "trace":
		// zap has no trace level; trace output is gated here and emitted
		// at zap's debug level.
		current = Trace
	default:
		current = Info
	}
	if current >= Debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	l, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		return err
	}
	sugar = l.Sugar()
	return nil
}

// SetVerbosity sets the global logging verbosity.
// Typically called once during application startup
// (e.g. after parsing CLI flags).
func SetVerbosity(v int) {
	current = Level(v)
}

func backend() *zap.SugaredLogger {
	if sugar == nil {
		l, _ := zap.NewDevelopment(zap.AddCallerSkip(2))
		sugar = l.Sugar()
	}
	return sugar
}

// Errorf logs an error-level message.
// Use this for failures that require attention.
func Errorf(format string, args ...any) {
	if current >= Error {
		backend().Errorf(format, args...)
	}
}

// Infof logs an informational message.
// Use this for major lifecycle events.
func Infof(format string, args ...any) {
	if current >= Info {
		backend().Infof(format, args...)
	}
}

// Debugf logs debugging information.
// Use this for diagnostic output useful during development.
func Debugf(format string, args ...any) {
	if current >= Debug {
		backend().Debugf(format, args...)
	}
}

// Tracef logs very detailed execution traces.
// Use this sparingly due to high volume.
func Tracef(format string, args ...any) {
	if current >= Trace {
		backend().Debugf(format, args...)
	}
}
