package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/docchat/internal/backend"
	"github.com/ziadkadry99/docchat/internal/config"
	"github.com/ziadkadry99/docchat/internal/logger"
)

// loadConfig loads the config, applies command-line overrides and
// validates the result, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docchat init` to create a config file", err)
	}
	if backendURL != "" {
		cfg.Backend.URL = backendURL
	}
	if verbose {
		cfg.Log.Level = config.LogDebug
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setup loads the config and builds the logger and backend client shared
// by every command.
func setup(opts ...backend.Option) (*config.Config, *zap.Logger, *backend.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating logger: %w", err)
	}

	opts = append([]backend.Option{backend.WithLogger(log)}, opts...)
	client := backend.NewFromConfig(cfg.Backend, opts...)
	log.Debug("backend configured", zap.String("url", client.BaseURL()))

	return cfg, log, client, nil
}
