// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/thaplubot/thaplubot-tui/internal/util"
)

// DefaultBaseURL is the hosted ThapluBot backend.
const DefaultBaseURL = "https://thaplubot-backend.onrender.com"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete thaplubot configuration.
type Config struct {
	API     APIConfig     `toml:"api" json:"api"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	History HistoryConfig `toml:"history" json:"history"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// APIConfig controls how the backend is reached.
type APIConfig struct {
	// BaseURL is read once at startup and never changes while running.
	BaseURL        string   `toml:"base_url" json:"base_url"`
	Timeout        Duration `toml:"timeout" json:"timeout"`
	HealthInterval Duration `toml:"health_interval" json:"health_interval"`

	// RateLimit caps chat requests per second; 0 disables the limiter.
	RateLimit float64 `toml:"rate_limit" json:"rate_limit"`
	RateBurst int     `toml:"rate_burst" json:"rate_burst"`

	// SingleFlight rejects a send while another one is still pending.
	SingleFlight bool `toml:"single_flight" json:"single_flight"`
}

// UIConfig holds presentation settings. These are the only settings
// picked up by a hot reload.
type UIConfig struct {
	Theme          string `toml:"theme" json:"theme"` // auto, dark, light
	ShowTimestamps bool   `toml:"show_timestamps" json:"show_timestamps"`
	MarkdownStyle  string `toml:"markdown_style" json:"markdown_style"` // auto, dark, light, notty, lite
	WordWrap       int    `toml:"word_wrap" json:"word_wrap"`
	CodeStyle      string `toml:"code_style" json:"code_style"` // chroma style name
}

// HistoryConfig controls transcript persistence.
type HistoryConfig struct {
	Enabled          bool   `toml:"enabled" json:"enabled"`
	MaxConversations int    `toml:"max_conversations" json:"max_conversations"`
	Dir              string `toml:"dir" json:"dir"` // empty: <config dir>/conversations
}

// LogConfig controls the file logger.
type LogConfig struct {
	Level string `toml:"level" json:"level"` // debug, info, warn, error
	File  string `toml:"file" json:"file"`   // empty: <config dir>/thaplubot.log
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        DefaultBaseURL,
			Timeout:        Duration(60 * time.Second),
			HealthInterval: Duration(30 * time.Second),
			RateBurst:      1,
		},
		UI: UIConfig{
			Theme:          "auto",
			ShowTimestamps: true,
			MarkdownStyle:  "auto",
			WordWrap:       80,
			CodeStyle:      "monokai",
		},
		History: HistoryConfig{
			Enabled:          true,
			MaxConversations: 100,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// DURATION
// =============================================================================

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String implements fmt.Stringer.
func (d Duration) String() string { return time.Duration(d).String() }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the thaplubot configuration directory. THAPLUBOT_HOME
// overrides the default ~/.thaplubot.
func ConfigDir() (string, error) {
	if dir := os.Getenv("THAPLUBOT_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".thaplubot"), nil
}

// ConfigPath returns the path of the default TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir creates the config directory if needed.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// HistoryDir returns the directory where transcripts are stored.
func (c *Config) HistoryDir() (string, error) {
	if c.History.Dir != "" {
		return expandHome(c.History.Dir), nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "conversations"), nil
}

// LogPath returns the log file path.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return expandHome(c.Log.File), nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "thaplubot.log"), nil
}

// ReplHistoryPath returns the line editor history file used by `thaplubot chat`.
func ReplHistoryPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "repl_history"), nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load builds the configuration from defaults, the TOML file at path (the
// default location when path is empty), .env files and the environment.
// A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	LoadDotEnv()
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes the TOML file at path over cfg.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		fmt.Fprintf(os.Stderr, "Warning: unknown config keys in %s: %s\n", path, strings.Join(keys, ", "))
	}
	return nil
}

// LoadDotEnv loads .env from the working directory and the config
// directory. Variables already set in the environment are kept.
func LoadDotEnv() {
	_ = godotenv.Load(".env")
	if dir, err := ConfigDir(); err == nil {
		_ = godotenv.Load(filepath.Join(dir, ".env"))
	}
}

// SetDefaults fills zero values that would make the config unusable.
func (c *Config) SetDefaults() {
	d := Default()
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = d.API.Timeout
	}
	if c.API.HealthInterval == 0 {
		c.API.HealthInterval = d.API.HealthInterval
	}
	if c.API.RateLimit > 0 && c.API.RateBurst <= 0 {
		c.API.RateBurst = 1
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.MarkdownStyle == "" {
		c.UI.MarkdownStyle = d.UI.MarkdownStyle
	}
	if c.UI.WordWrap == 0 {
		c.UI.WordWrap = d.UI.WordWrap
	}
	if c.UI.CodeStyle == "" {
		c.UI.CodeStyle = d.UI.CodeStyle
	}
	if c.History.MaxConversations == 0 {
		c.History.MaxConversations = d.History.MaxConversations
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies THAPLUBOT_* environment variables.
//
// Supported environment variables:
//   - THAPLUBOT_API_URL: api.base_url
//   - THAPLUBOT_TIMEOUT: api.timeout
//   - THAPLUBOT_HEALTH_INTERVAL: api.health_interval
//   - THAPLUBOT_THEME: ui.theme
//   - THAPLUBOT_HISTORY: history.enabled ("1", "true", "0", "false")
//   - THAPLUBOT_LOG_LEVEL: log.level
//   - THAPLUBOT_LOG_FILE: log.file
func (c *Config) ApplyEnvOverrides() error {
	var errs ValidateErrors

	if v := os.Getenv("THAPLUBOT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("THAPLUBOT_TIMEOUT"); v != "" {
		if err := c.API.Timeout.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, ValidationError{Field: "THAPLUBOT_TIMEOUT", Message: err.Error()})
		}
	}
	if v := os.Getenv("THAPLUBOT_HEALTH_INTERVAL"); v != "" {
		if err := c.API.HealthInterval.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, ValidationError{Field: "THAPLUBOT_HEALTH_INTERVAL", Message: err.Error()})
		}
	}
	if v := os.Getenv("THAPLUBOT_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("THAPLUBOT_HISTORY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, ValidationError{Field: "THAPLUBOT_HISTORY", Message: err.Error()})
		} else {
			c.History.Enabled = b
		}
	}
	if v := os.Getenv("THAPLUBOT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("THAPLUBOT_LOG_FILE"); v != "" {
		c.Log.File = v
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// SAVE
// =============================================================================

// SaveTOML writes cfg to path with a header comment.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# thaplubot configuration file\n")
	buf.WriteString("# Generated by thaplubot - edit with care\n\n")

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
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

var (
	validThemes         = map[string]bool{"auto": true, "dark": true, "light": true}
	validMarkdownStyles = map[string]bool{"auto": true, "dark": true, "light": true, "notty": true, "lite": true}
	validLogLevels      = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
)

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be an absolute http(s) URL", c.API.BaseURL),
		})
	}
	if c.API.Timeout.Std() < time.Second {
		errs = append(errs, ValidationError{Field: "api.timeout", Message: "must be at least 1s"})
	}
	if c.API.HealthInterval.Std() < time.Second {
		errs = append(errs, ValidationError{Field: "api.health_interval", Message: "must be at least 1s"})
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, ValidationError{Field: "api.rate_limit", Message: "must not be negative"})
	}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}
	if !validMarkdownStyles[strings.ToLower(c.UI.MarkdownStyle)] {
		errs = append(errs, ValidationError{
			Field:   "ui.markdown_style",
			Message: fmt.Sprintf("invalid style '%s', must be one of: auto, dark, light, notty, lite", c.UI.MarkdownStyle),
		})
	}
	if c.UI.WordWrap < 20 || c.UI.WordWrap > 400 {
		errs = append(errs, ValidationError{Field: "ui.word_wrap", Message: "must be between 20 and 400"})
	}
	if c.History.MaxConversations < 1 {
		errs = append(errs, ValidationError{Field: "history.max_conversations", Message: "must be at least 1"})
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// GET/SET (DOT NOTATION)
// =============================================================================

// Keys lists the settable keys in dot notation.
func Keys() []string {
	return []string{
		"api.base_url", "api.timeout", "api.health_interval", "api.rate_limit",
		"api.rate_burst", "api.single_flight",
		"ui.theme", "ui.show_timestamps", "ui.markdown_style", "ui.word_wrap", "ui.code_style",
		"history.enabled", "history.max_conversations", "history.dir",
		"log.level", "log.file",
	}
}

// Get returns the value of key formatted as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api.base_url":
		return c.API.BaseURL, nil
	case "api.timeout":
		return c.API.Timeout.String(), nil
	case "api.health_interval":
		return c.API.HealthInterval.String(), nil
	case "api.rate_limit":
		return strconv.FormatFloat(c.API.RateLimit, 'g', -1, 64), nil
	case "api.rate_burst":
		return strconv.Itoa(c.API.RateBurst), nil
	case "api.single_flight":
		return strconv.FormatBool(c.API.SingleFlight), nil
	case "ui.theme":
		return c.UI.Theme, nil
	case "ui.show_timestamps":
		return strconv.FormatBool(c.UI.ShowTimestamps), nil
	case "ui.markdown_style":
		return c.UI.MarkdownStyle, nil
	case "ui.word_wrap":
		return strconv.Itoa(c.UI.WordWrap), nil
	case "ui.code_style":
		return c.UI.CodeStyle, nil
	case "history.enabled":
		return strconv.FormatBool(c.History.Enabled), nil
	case "history.max_conversations":
		return strconv.Itoa(c.History.MaxConversations), nil
	case "history.dir":
		return c.History.Dir, nil
	case "log.level":
		return c.Log.Level, nil
	case "log.file":
		return c.Log.File, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set parses value and assigns it to key. The result is not validated;
// call Validate afterwards.
func (c *Config) Set(key, value string) error {
	var err error
	switch key {
	case "api.base_url":
		c.API.BaseURL = value
	case "api.timeout":
		err = c.API.Timeout.UnmarshalText([]byte(value))
	case "api.health_interval":
		err = c.API.HealthInterval.UnmarshalText([]byte(value))
	case "api.rate_limit":
		c.API.RateLimit, err = strconv.ParseFloat(value, 64)
	case "api.rate_burst":
		c.API.RateBurst, err = strconv.Atoi(value)
	case "api.single_flight":
		c.API.SingleFlight, err = strconv.ParseBool(value)
	case "ui.theme":
		c.UI.Theme = value
	case "ui.show_timestamps":
		c.UI.ShowTimestamps, err = strconv.ParseBool(value)
	case "ui.markdown_style":
		c.UI.MarkdownStyle = value
	case "ui.word_wrap":
		c.UI.WordWrap, err = strconv.Atoi(value)
	case "ui.code_style":
		c.UI.CodeStyle = value
	case "history.enabled":
		c.History.Enabled, err = strconv.ParseBool(value)
	case "history.max_conversations":
		c.History.MaxConversations, err = strconv.Atoi(value)
	case "history.dir":
		c.History.Dir = value
	case "log.level":
		c.Log.Level = value
	case "log.file":
		c.Log.File = value
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}
