// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/yassine-work/Chatbot-v2/internal/suggest"
	"github.com/yassine-work/Chatbot-v2/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatbot configuration.
type Config struct {
	// Responder is the chat endpoint the client talks to.
	Responder ResponderConfig `toml:"responder" json:"responder"`

	// Reveal controls the word-by-word animation.
	Reveal RevealConfig `toml:"reveal" json:"reveal"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Log configuration
	Log LogConfig `toml:"log" json:"log"`

	// Server configures the development responder started by `chatbot serve`.
	Server ServerConfig `toml:"server" json:"server"`

	// Suggestions replaces the built-in suggested prompts when non-empty.
	Suggestions []suggest.Suggestion `toml:"suggestions" json:"suggestions"`
}

// ResponderConfig contains the chat endpoint settings.
type ResponderConfig struct {
	// Endpoint is the full URL of the chat route.
	Endpoint string `toml:"endpoint" json:"endpoint"`
	// TimeoutSecs bounds a single request. 0 selects the default.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// RevealConfig contains reveal animation settings.
type RevealConfig struct {
	// IntervalMs is the delay between two revealed words.
	IntervalMs int `toml:"interval_ms" json:"interval_ms"`
}

// UIConfig contains UI-related configuration.
type UIConfig struct {
	// Theme is "dark", "light" or "auto".
	Theme string `toml:"theme" json:"theme"`
	// ShowSuggestions shows the suggested prompts on a fresh session.
	ShowSuggestions bool `toml:"show_suggestions" json:"show_suggestions"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// File is the log destination. "stderr" logs to the terminal.
	File string `toml:"file" json:"file"`
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" json:"level"`
}

// ServerConfig contains development responder settings.
type ServerConfig struct {
	Addr            string   `toml:"addr" json:"addr"`
	RatePerSec      float64  `toml:"rate_per_sec" json:"rate_per_sec"`
	Burst           int      `toml:"burst" json:"burst"`
	CacheTTLSecs    int      `toml:"cache_ttl_secs" json:"cache_ttl_secs"`
	CacheMaxEntries int      `toml:"cache_max_entries" json:"cache_max_entries"`
	RedisAddr       string   `toml:"redis_addr" json:"redis_addr"`
	RedisDB         int      `toml:"redis_db" json:"redis_db"`
	OpenRouterKey   string   `toml:"openrouter_key" json:"openrouter_key"`
	Model           string   `toml:"model" json:"model"`
	MaxTokens       int      `toml:"max_tokens" json:"max_tokens"`
	Temperature     float64  `toml:"temperature" json:"temperature"`
	AllowedOrigins  []string `toml:"allowed_origins" json:"allowed_origins"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	logFile := ""
	if dir, err := ConfigDir(); err == nil {
		logFile = filepath.Join(dir, "chatbot.log")
	}

	return &Config{
		Responder: ResponderConfig{
			Endpoint:    "http://localhost:8000/chat",
			TimeoutSecs: 60,
		},
		Reveal: RevealConfig{
			IntervalMs: 100,
		},
		UI: UIConfig{
			Theme:           "auto",
			ShowSuggestions: true,
		},
		Log: LogConfig{
			File:  logFile,
			Level: "info",
		},
		Server: ServerConfig{
			Addr:            ":8000",
			RatePerSec:      5,
			Burst:           10,
			CacheTTLSecs:    3600,
			CacheMaxEntries: 1000,
			Model:           "cohere/command-r-plus",
			MaxTokens:       100,
			Temperature:     0.7,
			AllowedOrigins: []string{
				"http://localhost:8501",
				"http://localhost:3000",
				"http://localhost:5173",
			},
		},
		Suggestions: suggest.Defaults(),
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the chatbot configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatbot"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads a .env file from the working directory, if present.
// Variables already set in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load(".env")
}

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	if path, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}
	if path, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path, fills in
// missing values, applies environment overrides and validates the result.
func LoadFromPath(path string) (*Config, error) {
	// Decode over defaults so absent booleans keep their default value.
	// Slices start empty and are filled afterwards.
	cfg := Default()
	cfg.Server.AllowedOrigins = nil
	cfg.Suggestions = nil

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	fillDefaults(cfg)
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	// Responder
	if cfg.Responder.Endpoint == "" {
		cfg.Responder.Endpoint = defaults.Responder.Endpoint
	}
	if cfg.Responder.TimeoutSecs == 0 {
		cfg.Responder.TimeoutSecs = defaults.Responder.TimeoutSecs
	}

	// Reveal
	if cfg.Reveal.IntervalMs == 0 {
		cfg.Reveal.IntervalMs = defaults.Reveal.IntervalMs
	}

	// UI
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}

	// Log
	if cfg.Log.File == "" {
		cfg.Log.File = defaults.Log.File
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}

	// Server
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaults.Server.Addr
	}
	if cfg.Server.RatePerSec == 0 {
		cfg.Server.RatePerSec = defaults.Server.RatePerSec
	}
	if cfg.Server.Burst == 0 {
		cfg.Server.Burst = defaults.Server.Burst
	}
	if cfg.Server.CacheTTLSecs == 0 {
		cfg.Server.CacheTTLSecs = defaults.Server.CacheTTLSecs
	}
	if cfg.Server.CacheMaxEntries == 0 {
		cfg.Server.CacheMaxEntries = defaults.Server.CacheMaxEntries
	}
	if cfg.Server.Model == "" {
		cfg.Server.Model = defaults.Server.Model
	}
	if cfg.Server.MaxTokens == 0 {
		cfg.Server.MaxTokens = defaults.Server.MaxTokens
	}
	if cfg.Server.Temperature == 0 {
		cfg.Server.Temperature = defaults.Server.Temperature
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}

	if len(cfg.Suggestions) == 0 {
		cfg.Suggestions = defaults.Suggestions
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration as TOML with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# chatbot configuration file\n")
	buf.WriteString("# Generated by chatbot - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every validation failure.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns ValidateErrors on failure.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// ==========================================================================
	// Responder
	// ==========================================================================

	if u, err := url.Parse(c.Responder.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "responder.endpoint",
			Message: fmt.Sprintf("invalid URL '%s'", c.Responder.Endpoint),
		})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{
			Field:   "responder.endpoint",
			Message: fmt.Sprintf("unsupported scheme '%s', must be http or https", u.Scheme),
		})
	}
	if c.Responder.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "responder.timeout_secs",
			Message: "must be non-negative",
		})
	}

	// ==========================================================================
	// Reveal
	// ==========================================================================

	if c.Reveal.IntervalMs <= 0 || c.Reveal.IntervalMs > 10000 {
		errs = append(errs, ValidationError{
			Field:   "reveal.interval_ms",
			Message: fmt.Sprintf("must be 1-10000, got %d", c.Reveal.IntervalMs),
		})
	}

	// ==========================================================================
	// UI & Log
	// ==========================================================================

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	// ==========================================================================
	// Server
	// ==========================================================================

	if c.Server.RatePerSec < 0 {
		errs = append(errs, ValidationError{Field: "server.rate_per_sec", Message: "must be non-negative"})
	}
	if c.Server.Burst < 0 {
		errs = append(errs, ValidationError{Field: "server.burst", Message: "must be non-negative"})
	}
	if c.Server.CacheMaxEntries < 0 || c.Server.CacheMaxEntries > 100000 {
		errs = append(errs, ValidationError{
			Field:   "server.cache_max_entries",
			Message: fmt.Sprintf("must be 0-100000, got %d", c.Server.CacheMaxEntries),
		})
	}
	if c.Server.Temperature < 0 || c.Server.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "server.temperature",
			Message: "must be between 0.0 and 2.0",
		})
	}

	for i, s := range c.Suggestions {
		if strings.TrimSpace(s.Action) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("suggestions[%d].action", i),
				Message: "must not be empty",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - CHATBOT_ENDPOINT: overrides responder.endpoint
//   - CHATBOT_REVEAL_INTERVAL_MS: overrides reveal.interval_ms
//   - CHATBOT_THEME: overrides ui.theme
//   - CHATBOT_LOG_FILE, CHATBOT_LOG_LEVEL: override log.file and log.level
//   - CHATBOT_SERVER_ADDR: overrides server.addr
//   - OPENROUTER_API_KEY: overrides server.openrouter_key
//   - REDIS_HOST, REDIS_PORT, REDIS_DB: build server.redis_addr and server.redis_db
func (c *Config) ApplyEnvOverrides() {
	if endpoint := os.Getenv("CHATBOT_ENDPOINT"); endpoint != "" {
		c.Responder.Endpoint = endpoint
	}

	if interval := os.Getenv("CHATBOT_REVEAL_INTERVAL_MS"); interval != "" {
		if ms, err := strconv.Atoi(interval); err == nil {
			c.Reveal.IntervalMs = ms
		}
	}

	if theme := os.Getenv("CHATBOT_THEME"); theme != "" {
		c.UI.Theme = theme
	}

	if file := os.Getenv("CHATBOT_LOG_FILE"); file != "" {
		c.Log.File = file
	}
	if level := os.Getenv("CHATBOT_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}

	if addr := os.Getenv("CHATBOT_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}

	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		c.Server.OpenRouterKey = key
	}

	if host := os.Getenv("REDIS_HOST"); host != "" {
		port := os.Getenv("REDIS_PORT")
		if port == "" {
			port = "6379"
		}
		c.Server.RedisAddr = host + ":" + port
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		if n, err := strconv.Atoi(db); err == nil {
			c.Server.RedisDB = n
		}
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "reveal.interval_ms").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		result.WriteString(strings.ToUpper(part[:1]))
		result.WriteString(strings.ToLower(part[1:]))
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %w", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %w", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				items := strings.Split(strVal, ",")
				for i := range items {
					items[i] = strings.TrimSpace(items[i])
				}
				field.Set(reflect.ValueOf(items))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// Keys returns every scalar configuration key in dot notation.
func Keys() []string {
	return []string{
		"responder.endpoint",
		"responder.timeout_secs",
		"reveal.interval_ms",
		"ui.theme",
		"ui.show_suggestions",
		"log.file",
		"log.level",
		"server.addr",
		"server.rate_per_sec",
		"server.burst",
		"server.cache_ttl_secs",
		"server.cache_max_entries",
		"server.redis_addr",
		"server.redis_db",
		"server.openrouter_key",
		"server.model",
		"server.max_tokens",
		"server.temperature",
		"server.allowed_origins",
	}
}

// =============================================================================
// COPY & DISPLAY
// =============================================================================

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Server.AllowedOrigins = append([]string(nil), c.Server.AllowedOrigins...)
	clone.Suggestions = append([]suggest.Suggestion(nil), c.Suggestions...)
	return &clone
}

// Redacted returns a copy with secrets replaced.
func (c *Config) Redacted() *Config {
	safe := c.Clone()
	if safe.Server.OpenRouterKey != "" {
		safe.Server.OpenRouterKey = "[REDACTED]"
	}
	return safe
}

// String renders the config as TOML with secrets redacted.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c.Redacted()); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return buf.String()
}
