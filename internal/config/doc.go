// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chatbot.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command line flags (applied by the cli package)
//   - Environment variables (CHATBOT_*, OPENROUTER_API_KEY, REDIS_*), including
//     those loaded from ./.env
//   - ~/.chatbot/config.toml
//   - ~/.chatbot/config.json
//   - Built-in defaults
//
// # Usage
//
//	config.LoadDotEnv()
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	interval := time.Duration(cfg.Reveal.IntervalMs) * time.Millisecond
//
// Watch reloads the file on change so a running TUI can pick up a new
// endpoint, theme or reveal speed without restarting.
package config
