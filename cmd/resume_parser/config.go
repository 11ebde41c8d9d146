package main

import (
	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/logging"
	"github.com/spf13/cobra"
)

// loadConfig resolves defaults, the --config file and the environment, then applies
// overrides for flags the user set explicitly, and initializes logging.
func loadConfig(cmd *cobra.Command, overrides func(cfg *config.Config, changed func(string) bool)) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if overrides != nil {
		overrides(&cfg, cmd.Flags().Changed)
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	logging.Init(cfg.LoggingConfig())
	return cfg, nil
}
