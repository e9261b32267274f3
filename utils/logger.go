package utils

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the process-wide logger; services receive it explicitly through their constructors.
	Logger   *zap.Logger
	loggerMu sync.Mutex
)

// NewLogger builds a production logger for production and a colored development logger otherwise.
func NewLogger(production bool, level string) (*zap.Logger, error) {
	var cfg zap.Config

	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lvl := zap.NewAtomicLevel()
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	} else if !production {
		lvl.SetLevel(zap.DebugLevel)
	}
	cfg.Level = lvl

	return cfg.Build()
}

// InitializeLogger sets up the global logger and zap's globals.
func InitializeLogger(production bool, level string) (*zap.Logger, error) {
	logger, err := NewLogger(production, level)
	if err != nil {
		return nil, err
	}
	loggerMu.Lock()
	Logger = logger
	loggerMu.Unlock()
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// GetLogger retrieves the global logger, or a no-op logger before initialization.
func GetLogger() *zap.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if Logger == nil {
		return zap.NewNop()
	}
	return Logger
}
