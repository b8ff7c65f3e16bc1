// Package diag provides astrashell's structured diagnostic logging: job
// state transitions, launcher errors, and wait failures. It never writes
// to the terminal and never stands in for the exact stderr text the
// shell's builtins and launcher are required to produce — it is purely
// an observability side channel, written to an optional log file.
package diag

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin wrapper scoping zap to astrashell's diagnostic needs.
// A nil *Logger is valid and silently discards every call, so components
// can hold one without a nil check at every call site.
type Logger struct {
	sugar *zap.SugaredLogger
	file  *os.File
}

// Discard returns a Logger that drops every entry.
func Discard() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// New builds a Logger that writes structured JSON lines to path. An empty
// path returns a discarding Logger rather than an error, since diagnostic
// logging is optional ambient behavior.
func New(path string) (*Logger, error) {
	if path == "" {
		return Discard(), nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(f),
		zap.DebugLevel,
	)

	return &Logger{sugar: zap.New(core).Sugar(), file: f}, nil
}

// Info logs a diagnostic event with structured key/value pairs.
func (l *Logger) Info(msg string, kv ...interface{}) {
	if l == nil || l.sugar == nil {
		return
	}
	l.sugar.Infow(msg, kv...)
}

// Warn logs a diagnostic warning with structured key/value pairs.
func (l *Logger) Warn(msg string, kv ...interface{}) {
	if l == nil || l.sugar == nil {
		return
	}
	l.sugar.Warnw(msg, kv...)
}

// Close flushes and releases the underlying log file, if any.
func (l *Logger) Close() {
	if l == nil || l.sugar == nil {
		return
	}
	_ = l.sugar.Sync()
	if l.file != nil {
		_ = l.file.Close()
	}
}
