package cmd

import (
	"fmt"

	"github.com/berrythewa/linkforward/internal/config"
	"github.com/berrythewa/linkforward/internal/forwarder"
	"go.uber.org/zap"
)

// Shared variables across all commands
var (
	cfg        *config.Config
	configPath string
	zapLogger  *zap.Logger
)

// SetConfig sets the configuration for commands, along with the file it
// was loaded from.
func SetConfig(config *config.Config, path string) {
	cfg = config
	configPath = path
}

// SetZapLogger sets the logger for commands
func SetZapLogger(log *zap.Logger) {
	zapLogger = log
}

func GetZapLogger() *zap.Logger {
	if zapLogger == nil {
		return zap.NewNop()
	}
	return zapLogger
}

// newForwarder builds a forwarder from the loaded configuration.
func newForwarder() (*forwarder.Forwarder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return forwarder.New(forwarder.Options{
		ServiceURL: cfg.ServiceURL,
		IDE:        cfg.IDE,
		Timeout:    cfg.Timeout.Std(),
		Logger:     GetZapLogger(),
	}), nil
}
