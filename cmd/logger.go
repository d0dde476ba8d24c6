package cmd

import (
	"go.uber.org/zap"
)

// NewLogger returns the logger described by cfg.
//
// For "production", it uses a JSON encoder. For all other environments,
// it uses a human-readable console encoder. Logs always go to stderr.
func NewLogger(cfg *Config) *zap.Logger {
	var zc zap.Config
	if cfg.Environment == "production" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	}
	zc.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		// Fallback to nop logger if initialization fails.
		return zap.NewNop()
	}
	return logger
}
