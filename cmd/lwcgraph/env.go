package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"lwcgraph/internal/config"
	"lwcgraph/internal/logx"
)

const configFileHint = config.FileName

// env is what every subcommand needs: the resolved configuration, a logger
// on stderr and whether stdout takes color.
type env struct {
	cfg      config.Config
	log      *log.Logger
	useColor bool
	timings  bool
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	flags := cmd.Root().PersistentFlags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return nil, err
	}

	level, err := flags.GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	if level == "" {
		level = cfg.LogLevel
	}
	logger, err := logx.New(cmd.ErrOrStderr(), level)
	if err != nil {
		return nil, err
	}

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "auto", "on", "off":
	default:
		return nil, fmt.Errorf("unsupported color mode %q (must be auto, on or off)", colorFlag)
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && cmd.OutOrStdout() == os.Stdout && isTerminal(os.Stdout))

	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}

	if cfg.Path != "" {
		logger.Debug("loaded configuration", "path", cfg.Path)
	}
	return &env{cfg: cfg, log: logger, useColor: useColor, timings: timings}, nil
}
