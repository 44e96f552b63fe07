// Package config loads the optional user configuration shared by the
// demo clients.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the effective configuration. Zero values mean "use the
// built-in behavior", so a missing file is simply the zero Config.
type Config struct {
	Cursor CursorConfig `yaml:"cursor"`
	Log    LogConfig    `yaml:"log"`
}

// CursorConfig pins the cursor theme and size. Unset fields fall back
// to the session settings lookup.
type CursorConfig struct {
	Theme string `yaml:"theme"`
	Size  int    `yaml:"size"`
}

// LogConfig selects log verbosity and output shape.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// DefaultPath returns the standard config location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "weston-clients", "config.yaml"), nil
}

// Load reads the config from the standard location. A missing file is
// not an error; a malformed one is.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the config from path and applies environment
// overrides.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if level := os.Getenv("WESTON_CLIENTS_LOG"); level != "" {
		c.Log.Level = level
	}
}

// SlogLevel maps the configured level string to a slog level, defaulting
// to Info for unset or unknown values.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "", "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger builds the logger the demo clients share, honoring the
// configured level and format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
