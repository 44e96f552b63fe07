package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	t.Setenv("WESTON_CLIENTS_LOG", "")
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Cursor.Theme != "" || cfg.Cursor.Size != 0 {
		t.Errorf("defaults not zero: %+v", cfg.Cursor)
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("default level = %v, want info", cfg.SlogLevel())
	}
}

func TestLoadParsesFile(t *testing.T) {
	t.Setenv("WESTON_CLIENTS_LOG", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "cursor:\n  theme: Adwaita\n  size: 32\nlog:\n  level: debug\n  format: json\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cursor.Theme != "Adwaita" || cfg.Cursor.Size != 32 {
		t.Errorf("cursor = %+v", cfg.Cursor)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("level = %v, want debug", cfg.SlogLevel())
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("cursor: [not: a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromPath(path); err == nil {
		t.Error("malformed yaml accepted")
	}
}

func TestEnvOverridesLevel(t *testing.T) {
	t.Setenv("WESTON_CLIENTS_LOG", "error")
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SlogLevel() != slog.LevelError {
		t.Errorf("level = %v, want error", cfg.SlogLevel())
	}
}

func TestSlogLevelTable(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"Info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		c := Config{Log: LogConfig{Level: tt.in}}
		if got := c.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
