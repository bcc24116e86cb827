// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/yassine-work/Chatbot-v2/internal/config"
	"github.com/yassine-work/Chatbot-v2/internal/logging"
	"github.com/yassine-work/Chatbot-v2/internal/responder"
)

// app is the configuration and logger shared by a command run.
type app struct {
	cfg     *config.Config
	cfgPath string
	flags   *globalFlags
	logger  *logging.Logger
}

// resolveConfigPath returns the config path from --config or the default
// TOML location.
func resolveConfigPath(flags *globalFlags) string {
	if flags.configPath != "" {
		return flags.configPath
	}
	path, err := config.ConfigPathTOML()
	if err != nil {
		return ""
	}
	return path
}

// loadConfig reads configuration and applies flag overrides.
func loadConfig(flags *globalFlags) (*config.Config, string, error) {
	config.LoadDotEnv()

	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFromPath(flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}

	if err := applyFlags(cfg, flags); err != nil {
		return nil, "", err
	}
	return cfg, resolveConfigPath(flags), nil
}

// applyFlags lets command line flags win over file and environment.
func applyFlags(cfg *config.Config, flags *globalFlags) error {
	if flags.endpoint != "" {
		cfg.Responder.Endpoint = flags.endpoint
	}
	if flags.intervalMs > 0 {
		cfg.Reveal.IntervalMs = flags.intervalMs
	}
	if flags.logFile != "" {
		cfg.Log.File = flags.logFile
	}
	if flags.debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// newApp loads config and opens the log. logToStderr overrides the log
// file, for commands that do not own the terminal.
func newApp(flags *globalFlags, logToStderr bool) (*app, error) {
	cfg, path, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	dest := cfg.Log.File
	if logToStderr {
		dest = "stderr"
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.Log.Level,
		File:        dest,
		Development: flags.debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		logger = logging.Nop()
	}
	return &app{cfg: cfg, cfgPath: path, flags: flags, logger: logger}, nil
}

// responder builds the HTTP client for the configured endpoint.
func (a *app) responder() *responder.Client {
	return responder.NewClient(a.cfg.Responder.Endpoint).
		WithTimeout(time.Duration(a.cfg.Responder.TimeoutSecs) * time.Second).
		WithLogger(a.logger)
}

// revealInterval returns the configured per-word delay.
func (a *app) revealInterval() time.Duration {
	return time.Duration(a.cfg.Reveal.IntervalMs) * time.Millisecond
}

func (a *app) close() {
	a.logger.Sync()
}
