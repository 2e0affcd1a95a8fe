// Package logger constructs the structured zap logger shared by all flint
// components. Every internal subsystem receives a *zap.SugaredLogger through
// its Config; this package is the single place deciding how those loggers
// are built.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production SugaredLogger tagged with the given service name.
// Construction failures fall back to a no-op logger rather than propagating:
// an embedded store must never refuse to open because logging could not be
// configured.
func New(service string) *zap.SugaredLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	config.InitialFields = map[string]any{"service": service}

	log, err := config.Build(zap.WithCaller(true))
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return log.Sugar()
}

// NewNop returns a logger that discards everything. Tests use it to keep
// output quiet while exercising components that require a logger.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
