// Package logging constructs the structured logger every rogue subsystem
// receives through its Config, centralizing zap setup in one place.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-style zap.SugaredLogger tagged with the given
// service name. Callers that need a silent logger for tests should use
// NewNop instead.
func New(service string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Fall back to a basic logger rather than leaving callers with nil.
		logger = zap.NewExample()
	}

	return logger.Named(service).Sugar()
}

// NewNop returns a logger that discards everything, for tests and
// embedding scenarios that don't want engine log output.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
