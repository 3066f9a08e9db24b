// Package logging builds the zap loggers shared by the server, middleware and handlers.
package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// New returns a production sugared logger at the named level ("debug", "info", ...).
// Unknown levels fall back to info.
func New(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level.SetLevel(lvl)
	core, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return core.Sugar(), nil
}

// Test returns a logger that writes through tb.
func Test(tb testing.TB) *zap.SugaredLogger {
	tb.Helper()
	return zaptest.NewLogger(tb, zaptest.Level(zapcore.DebugLevel)).Sugar()
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
