package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config is margin's validated runtime configuration. It is built once by
// Load and never modified.
type Config struct {
	APIURL       string
	Timeout      time.Duration
	LogFile      string
	LogLevel     string
	PollInterval time.Duration
}

const (
	defaultConfigPath  = "~/.config/margin/config.toml"
	defaultAPIURL      = "http://127.0.0.1:8000"
	defaultTimeoutMS   = 10000
	defaultLogFile     = "~/.local/state/margin/margin.log"
	defaultLogLevel    = "info"
	defaultPollSeconds = 15

	dotenvFile = ".env"
)

// fileConfig mirrors config.toml. Zero values mean "not set".
type fileConfig struct {
	APIURL      string `toml:"api_url"`
	TimeoutMS   int    `toml:"timeout_ms"`
	LogFile     string `toml:"log_file"`
	LogLevel    string `toml:"log_level"`
	PollSeconds int    `toml:"poll_seconds"`
}

// envConfig holds MARGIN_* overrides. Nil fields were not set.
type envConfig struct {
	APIURL      *string `env:"MARGIN_API_URL"`
	TimeoutMS   *int    `env:"MARGIN_TIMEOUT_MS"`
	LogFile     *string `env:"MARGIN_LOG_FILE"`
	LogLevel    *string `env:"MARGIN_LOG_LEVEL"`
	PollSeconds *int    `env:"MARGIN_POLL_SECONDS"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		APIURL:       defaultAPIURL,
		Timeout:      defaultTimeoutMS * time.Millisecond,
		LogFile:      mustExpand(defaultLogFile),
		LogLevel:     defaultLogLevel,
		PollInterval: defaultPollSeconds * time.Second,
	}
}

// Load reads the TOML file at path (the default location when empty), then
// applies a .env file from the working directory and MARGIN_* environment
// variables, and validates the result.
func Load(path string) (Config, error) {
	return load(path, dotenvFile)
}

func load(path, dotenv string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}

	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}
	var overrides envConfig
	if err := env.Parse(&overrides); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	overrides.apply(&raw)

	return build(raw)
}

func readFile(path string) (fileConfig, error) {
	var raw fileConfig
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return raw, nil
		}
		return raw, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return raw, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return raw, fmt.Errorf("parse config: %w", err)
	}
	return raw, nil
}

func (e envConfig) apply(raw *fileConfig) {
	if e.APIURL != nil {
		raw.APIURL = *e.APIURL
	}
	if e.TimeoutMS != nil {
		raw.TimeoutMS = *e.TimeoutMS
	}
	if e.LogFile != nil {
		raw.LogFile = *e.LogFile
	}
	if e.LogLevel != nil {
		raw.LogLevel = *e.LogLevel
	}
	if e.PollSeconds != nil {
		raw.PollSeconds = *e.PollSeconds
	}
}

func build(raw fileConfig) (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	if err := checkURL(cfg.APIURL); err != nil {
		return Config{}, err
	}

	if raw.TimeoutMS < 0 {
		return Config{}, fmt.Errorf("timeout_ms must be positive, got %d", raw.TimeoutMS)
	}
	if raw.TimeoutMS > 0 {
		cfg.Timeout = time.Duration(raw.TimeoutMS) * time.Millisecond
	}

	if v := strings.TrimSpace(raw.LogFile); v != "" {
		expanded, err := expandPath(v)
		if err != nil {
			return Config{}, fmt.Errorf("log_file: %w", err)
		}
		cfg.LogFile = expanded
	}

	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if _, ok := levels[cfg.LogLevel]; !ok {
		return Config{}, fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", raw.LogLevel)
	}

	if raw.PollSeconds < 0 {
		return Config{}, fmt.Errorf("poll_seconds must be positive, got %d", raw.PollSeconds)
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	return cfg, nil
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Level returns the slog level for LogLevel, defaulting to info.
func (c Config) Level() slog.Level {
	if lvl, ok := levels[c.LogLevel]; ok {
		return lvl
	}
	return slog.LevelInfo
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("api_url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("api_url %q: missing host", raw)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
