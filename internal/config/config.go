package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the wpstores client settings.
type Config struct {
	APIBase       string
	AppID         string
	AppSecret     string
	Workers       int
	RatePerSecond float64
	LogLevel      string
	PollInterval  time.Duration
	SessionPath   string
	// LogFile switches logging to JSON lines in this file. Empty logs text
	// to stderr.
	LogFile       string
}

const (
	defaultConfigPath    = "~/.config/wpstores/config.toml"
	defaultSessionPath   = "~/.config/wpstores/session.toml"
	defaultAPIBase       = "https://public-api.wordpress.com"
	defaultWorkers       = 4
	defaultRatePerSecond = 10
	defaultLogLevel      = "info"
	defaultPollSeconds   = 60

	envAppID     = "WPSTORES_APP_ID"
	envAppSecret = "WPSTORES_APP_SECRET"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBase:       defaultAPIBase,
		Workers:       defaultWorkers,
		RatePerSecond: defaultRatePerSecond,
		LogLevel:      defaultLogLevel,
		PollInterval:  defaultPollSeconds * time.Second,
		SessionPath:   mustExpand(defaultSessionPath),
	}
}

// Load locates and parses the config file, falling back to defaults when it
// is missing. App credentials from the environment override the file.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.applyEnv()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase       string  `toml:"api_base"`
		AppID         string  `toml:"app_id"`
		AppSecret     string  `toml:"app_secret"`
		Workers       int     `toml:"workers"`
		RatePerSecond float64 `toml:"rate_per_second"`
		LogLevel      string  `toml:"log_level"`
		PollSeconds   int     `toml:"poll_seconds"`
		SessionPath   string  `toml:"session_path"`
		LogFile       string  `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBase); v != "" {
		cfg.APIBase = strings.TrimRight(v, "/")
	}
	cfg.AppID = strings.TrimSpace(raw.AppID)
	cfg.AppSecret = strings.TrimSpace(raw.AppSecret)
	if raw.Workers > 0 {
		cfg.Workers = raw.Workers
	}
	if raw.RatePerSecond != 0 {
		cfg.RatePerSecond = raw.RatePerSecond
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	if v := strings.TrimSpace(raw.SessionPath); v != "" {
		cfg.SessionPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	cfg.applyEnv()

	return cfg, nil
}

// HasAppSecrets reports whether both app credentials are set.
func (c Config) HasAppSecrets() bool {
	return c.AppID != "" && c.AppSecret != ""
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(envAppID)); v != "" {
		c.AppID = v
	}
	if v := strings.TrimSpace(os.Getenv(envAppSecret)); v != "" {
		c.AppSecret = v
	}
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
