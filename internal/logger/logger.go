// Package logger wraps the zap logger used by the client and the identity stub.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger holds the process-wide structured logger.
type Logger struct {
	// Log is a no-op logger until Init or InitFile succeeds.
	Log *zap.Logger
}

// New returns a Logger backed by a no-op zap logger.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init configures a production JSON logger writing to stderr at the
// given level ("debug", "info", "warn", "error").
func (l *Logger) Init(level string) error {
	return l.build(level, []string{"stderr"})
}

// InitFile is like Init but writes to path. The terminal client uses it
// so log lines do not end up on the rendered screen.
func (l *Logger) InitFile(level, path string) error {
	if path == "" {
		return fmt.Errorf("log file path is empty")
	}
	return l.build(level, []string{path})
}

func (l *Logger) build(level string, outputs []string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.OutputPaths = outputs
	cfg.ErrorOutputPaths = outputs
	zl, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	l.Log = zl
	return nil
}
