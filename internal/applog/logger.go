package applog

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the narrow logging contract the services and the hub depend on.
type Logger interface {
	Logf(format string, v ...any)
}

type zapLogger struct {
	s *zap.SugaredLogger
}

func (z *zapLogger) Logf(format string, v ...any) {
	z.s.Infof(format, v...)
}

// Root builds the process-wide zap logger at the given level
// ("debug", "info", "warn", "error").
func Root(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("bad log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// Subsystem derives a named Logger for one component of the server.
func Subsystem(root *zap.Logger, name string) Logger {
	return &zapLogger{s: root.Named(name).Sugar()}
}

// Nop discards everything. Used by tests.
func Nop() Logger {
	return &zapLogger{s: zap.NewNop().Sugar()}
}
