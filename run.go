package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gqlgo/gqlgenpy/config"
	"github.com/gqlgo/gqlgenpy/plugins"
)

var configFilenames = []string{".gqlgenpy.yml", "gqlgenpy.yml", ".gqlgenpy.yaml", "gqlgenpy.yaml"}

func run(ctx context.Context, cfgFile string, verbose bool) error {
	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfgFile == "" {
		cfgFile, err = config.FindConfigFile(".", configFilenames)
		if err != nil {
			return fmt.Errorf("failed to find config file: %w", err)
		}
	}

	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}

	if err := cfg.LoadSchema(ctx); err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}

	if err := cfg.LoadQuery(); err != nil {
		return fmt.Errorf("failed to load query: %w", err)
	}

	if err := plugins.GenerateCode(ctx, cfg, logger); err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}
