package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oukeidos/subburn/internal/cleanup"
	"github.com/oukeidos/subburn/internal/config"
	"github.com/oukeidos/subburn/internal/files"
	"github.com/oukeidos/subburn/internal/logger"
)

var isTerminal = term.IsTerminal

// loadConfig reads the config file and layers explicitly set flags on top.
func loadConfig(cmd *cobra.Command, global *globalOptions, opts *renderOptions) (*config.Config, error) {
	cfg, path, exists, err := config.Load(global.configPath)
	if err != nil {
		return nil, err
	}
	if opts != nil {
		opts.applyTo(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if global.logFilePath != "" {
		expanded, err := config.ExpandPath(global.logFilePath)
		if err != nil {
			return nil, fmt.Errorf("resolve log file: %w", err)
		}
		cfg.Logging.File = expanded
	}
	if global.debug {
		cfg.Logging.Level = "debug"
	}
	if exists {
		logger.Debug("Loaded config", "config", path)
	}
	return cfg, nil
}

// setupLogging initializes the global logger from cfg and registers the log
// file for closing at exit.
func setupLogging(cfg *config.Config) error {
	level, err := logger.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	var logFileW io.Writer
	if path := strings.TrimSpace(cfg.Logging.File); path != "" {
		if err := files.RejectSymlinkPath(path); err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register("log file", f.Close)
		logFileW = f
	}
	logger.Init(level, logFileW)
	return nil
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("Cancellation requested")
			cancel()
		case <-ctx.Done():
		}
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
