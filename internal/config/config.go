// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/tubetalk/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete tubetalk configuration.
type Config struct {
	Version string `toml:"version"`

	// Server configuration
	Server ServerConfig `toml:"server"`

	// Auth configuration
	Auth AuthConfig `toml:"auth"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Logging configuration
	Logging LoggingConfig `toml:"logging"`

	// Cache configuration
	Cache CacheConfig `toml:"cache"`
}

// ServerConfig contains backend server configuration.
type ServerConfig struct {
	// BaseURL is the root URL of the tubetalk backend
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the request timeout for non-streaming calls in seconds
	TimeoutSecs int `toml:"timeout_secs"`
}

// AuthConfig contains stored credentials.
type AuthConfig struct {
	// Username is the account the token was issued to
	Username string `toml:"username"`
	// Token is the bearer token from the last login
	Token string `toml:"token"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode"`
	// ShowFollowUps displays suggested follow-up questions under answers
	ShowFollowUps bool `toml:"show_follow_ups"`
}

// LoggingConfig contains log output configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string `toml:"level"`
	// Path is the log file path (empty = default ~/.tubetalk/tubetalk.log)
	Path string `toml:"path"`
}

// CacheConfig contains the local conversation-list cache configuration.
type CacheConfig struct {
	// Enabled controls whether the local cache is active
	Enabled bool `toml:"enabled"`
	// Path is the cache database path (empty = default ~/.tubetalk/cache.db)
	Path string `toml:"path"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Server: ServerConfig{
			BaseURL:     "http://127.0.0.1:8000",
			TimeoutSecs: 30,
		},

		UI: UIConfig{
			Theme:         "dark",
			CompactMode:   false,
			ShowFollowUps: true,
		},

		Logging: LoggingConfig{
			Level: "info",
		},

		Cache: CacheConfig{
			Enabled: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// SettingsDir returns the tubetalk settings directory path.
func SettingsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".tubetalk"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := SettingsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureSettingsDir ensures the settings directory exists.
func EnsureSettingsDir() error {
	dir, err := SettingsDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// LogPath resolves the log file path, applying the default when unset.
func (c *Config) LogPath() (string, error) {
	if c.Logging.Path != "" {
		return c.Logging.Path, nil
	}
	dir, err := SettingsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tubetalk.log"), nil
}

// CachePath resolves the cache database path, applying the default when unset.
func (c *Config) CachePath() (string, error) {
	if c.Cache.Path != "" {
		return c.Cache.Path, nil
	}
	dir, err := SettingsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.db"), nil
}

// ensureSecurePermissions checks and fixes permissions on the config file.
// The file holds a bearer token, so it must be 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}

	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to defaults
// when no file exists. Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := loadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := loadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo saves the configuration to a TOML file. The write is atomic and
// the file is created 0600 because it carries the bearer token.
func SaveTo(cfg *Config, path string) error {
	if err := EnsureSettingsDir(); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# tubetalk configuration file")
	fmt.Fprintln(&buf, "# Generated by tubetalk - edit with care")
	fmt.Fprintln(&buf, "")

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

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Server.BaseURL != "" {
		u, err := url.Parse(c.Server.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "server.base_url",
				Message: fmt.Sprintf("invalid URL '%s'", c.Server.BaseURL),
			})
		}
	}

	if c.Server.TimeoutSecs < 0 || c.Server.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "server.timeout_secs",
			Message: fmt.Sprintf("must be 0-600, got %d", c.Server.TimeoutSecs),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing configuration fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = defaults.Server.BaseURL
	}
	if c.Server.TimeoutSecs == 0 {
		c.Server.TimeoutSecs = defaults.Server.TimeoutSecs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - TUBETALK_SERVER_URL: overrides server.base_url
//   - TUBETALK_TOKEN: overrides auth.token
//   - TUBETALK_USERNAME: overrides auth.username
//   - TUBETALK_THEME: overrides ui.theme
//   - TUBETALK_LOG_LEVEL: overrides logging.level
//   - TUBETALK_NO_CACHE: set to "1" or "true" to disable the local cache
func (c *Config) ApplyEnvOverrides() {
	if serverURL := os.Getenv("TUBETALK_SERVER_URL"); serverURL != "" {
		c.Server.BaseURL = serverURL
	}
	if token := os.Getenv("TUBETALK_TOKEN"); token != "" {
		c.Auth.Token = token
	}
	if username := os.Getenv("TUBETALK_USERNAME"); username != "" {
		c.Auth.Username = username
	}
	if theme := os.Getenv("TUBETALK_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if level := os.Getenv("TUBETALK_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if noCache := os.Getenv("TUBETALK_NO_CACHE"); noCache != "" {
		c.Cache.Enabled = !(noCache == "1" || strings.ToLower(noCache) == "true")
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation
// (e.g., "server.base_url").
func (c *Config) Get(key string) (string, error) {
	switch strings.ToLower(key) {
	case "version":
		return c.Version, nil
	case "server.base_url":
		return c.Server.BaseURL, nil
	case "server.timeout_secs":
		return strconv.Itoa(c.Server.TimeoutSecs), nil
	case "auth.username":
		return c.Auth.Username, nil
	case "ui.theme":
		return c.UI.Theme, nil
	case "ui.compact_mode":
		return strconv.FormatBool(c.UI.CompactMode), nil
	case "ui.show_follow_ups":
		return strconv.FormatBool(c.UI.ShowFollowUps), nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.path":
		return c.Logging.Path, nil
	case "cache.enabled":
		return strconv.FormatBool(c.Cache.Enabled), nil
	case "cache.path":
		return c.Cache.Path, nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

// Set updates a configuration value using dot notation. The caller is
// responsible for saving afterwards. Token is deliberately not settable
// this way; use login.
func (c *Config) Set(key, value string) error {
	switch strings.ToLower(key) {
	case "server.base_url":
		c.Server.BaseURL = value
	case "server.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("server.timeout_secs must be an integer: %w", err)
		}
		c.Server.TimeoutSecs = n
	case "ui.theme":
		c.UI.Theme = value
	case "ui.compact_mode":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("ui.compact_mode must be a boolean: %w", err)
		}
		c.UI.CompactMode = b
	case "ui.show_follow_ups":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("ui.show_follow_ups must be a boolean: %w", err)
		}
		c.UI.ShowFollowUps = b
	case "logging.level":
		c.Logging.Level = value
	case "logging.path":
		c.Logging.Path = value
	case "cache.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cache.enabled must be a boolean: %w", err)
		}
		c.Cache.Enabled = b
	case "cache.path":
		c.Cache.Path = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return c.Validate()
}

// Keys returns the settable configuration keys, for help output.
func Keys() []string {
	return []string{
		"server.base_url",
		"server.timeout_secs",
		"ui.theme",
		"ui.compact_mode",
		"ui.show_follow_ups",
		"logging.level",
		"logging.path",
		"cache.enabled",
		"cache.path",
	}
}
