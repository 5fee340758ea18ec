package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := load(filepath.Join(home, "does-not-exist.toml"), "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("Timeout = %v, want 10s", cfg.Timeout)
	}
	if cfg.PollInterval != 15*time.Second {
		t.Fatalf("PollInterval = %v, want 15s", cfg.PollInterval)
	}
	want := filepath.Join(home, ".local/state/margin/margin.log")
	if cfg.LogFile != want {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, want)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Fatalf("Level = %v, want info", cfg.Level())
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeFile(t, "config.toml", `
api_url = "  https://reading.lan:9000/  "
timeout_ms = 2500
log_file = "  ~/logs/margin.log  "
log_level = "DEBUG"
poll_seconds = 30
`)

	cfg, err := load(path, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "https://reading.lan:9000" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Timeout != 2500*time.Millisecond {
		t.Fatalf("Timeout = %v, want 2.5s", cfg.Timeout)
	}
	if cfg.LogFile != filepath.Join(home, "logs/margin.log") {
		t.Fatalf("LogFile = %q", cfg.LogFile)
	}
	if cfg.LogLevel != "debug" || cfg.Level() != slog.LevelDebug {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Fatalf("PollInterval = %v, want 30s", cfg.PollInterval)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MARGIN_API_URL", "http://10.0.0.5:8000")
	t.Setenv("MARGIN_TIMEOUT_MS", "700")
	t.Setenv("MARGIN_LOG_LEVEL", "warn")

	path := writeFile(t, "config.toml", `
api_url = "http://from-file:8000"
timeout_ms = 5000
`)

	cfg, err := load(path, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://10.0.0.5:8000" {
		t.Fatalf("APIURL = %q, want env value", cfg.APIURL)
	}
	if cfg.Timeout != 700*time.Millisecond {
		t.Fatalf("Timeout = %v, want 700ms", cfg.Timeout)
	}
	if cfg.Level() != slog.LevelWarn {
		t.Fatalf("Level = %v, want warn", cfg.Level())
	}
}

func TestLoad_DotenvFillsUnsetVariables(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	// Register restore-on-cleanup, then clear so the .env value applies.
	t.Setenv("MARGIN_POLL_SECONDS", "")
	_ = os.Unsetenv("MARGIN_POLL_SECONDS")
	t.Setenv("MARGIN_LOG_LEVEL", "error")

	dotenv := writeFile(t, ".env", "MARGIN_POLL_SECONDS=45\nMARGIN_LOG_LEVEL=debug\n")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.toml"), dotenv)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PollInterval != 45*time.Second {
		t.Fatalf("PollInterval = %v, want 45s from .env", cfg.PollInterval)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("LogLevel = %q, want the already-set environment value", cfg.LogLevel)
	}
}

func TestLoad_MissingDotenvIsIgnored(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if _, err := load("", filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad scheme", `api_url = "ftp://host"`, "scheme"},
		{"relative url", `api_url = "/just/a/path"`, "scheme"},
		{"negative timeout", `timeout_ms = -1`, "timeout_ms"},
		{"unknown level", `log_level = "verbose"`, "log_level"},
		{"negative poll", `poll_seconds = -5`, "poll_seconds"},
		{"broken toml", `api_url = [`, "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			_, err := load(writeFile(t, "config.toml", tt.content), "")
			if err == nil {
				t.Fatalf("Load returned nil error, want error mentioning %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %q, want it to mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
