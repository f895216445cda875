package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures courtcheck's settings after defaults and environment
// overrides have been applied.
type Config struct {
	Path           string
	Endpoint       string
	Category       string
	PageSize       int
	RequestTimeout time.Duration
	LogFile        string
	LogLevel       string
	Theme          string
}

const (
	defaultConfigPath     = "~/.config/courtcheck/config.toml"
	defaultLogFile        = "~/.local/state/courtcheck/courtcheck.log"
	defaultEndpoint       = "https://booking-tpsc.sporetrofit.com/Location/findAllowBookingList"
	defaultCategory       = "Badminton"
	defaultPageSize       = 200
	defaultRequestTimeout = 15 * time.Second
	defaultLogLevel       = "info"
	defaultTheme          = "Nightfox"
)

// Environment variables that override the file.
const (
	EnvEndpoint = "COURTCHECK_ENDPOINT"
	EnvCategory = "COURTCHECK_CATEGORY"
	EnvLogLevel = "COURTCHECK_LOG_LEVEL"
)

type fileConfig struct {
	Endpoint              string `toml:"endpoint"`
	Category              string `toml:"category"`
	PageSize              int    `toml:"page_size"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	LogFile               string `toml:"log_file"`
	LogLevel              string `toml:"log_level"`
	Theme                 string `toml:"theme"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Endpoint:       defaultEndpoint,
		Category:       defaultCategory,
		PageSize:       defaultPageSize,
		RequestTimeout: defaultRequestTimeout,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		Theme:          defaultTheme,
	}
}

// Load reads the TOML config at path (or the default location), falling back
// to defaults when the file is missing. A .env file next to the config is
// loaded into the environment first; COURTCHECK_* variables win over the file.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	cfg.Path = resolved

	envPath := filepath.Join(filepath.Dir(resolved), ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if raw != nil {
		var fc fileConfig
		if err := toml.Unmarshal(raw, &fc); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		cfg.apply(fc)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) apply(fc fileConfig) {
	if v := strings.TrimSpace(fc.Endpoint); v != "" {
		c.Endpoint = v
	}
	if v := strings.TrimSpace(fc.Category); v != "" {
		c.Category = v
	}
	if fc.PageSize > 0 {
		c.PageSize = fc.PageSize
	}
	if fc.RequestTimeoutSeconds > 0 {
		c.RequestTimeout = time.Duration(fc.RequestTimeoutSeconds) * time.Second
	}
	if v := strings.TrimSpace(fc.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(fc.LogLevel); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(fc.Theme); v != "" {
		c.Theme = v
	}
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvEndpoint)); v != "" {
		c.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCategory)); v != "" {
		c.Category = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
}

// String summarizes the effective settings for logging.
func (c Config) String() string {
	return fmt.Sprintf("endpoint=%s category=%s page_size=%d timeout=%s",
		c.Endpoint, c.Category, c.PageSize, c.RequestTimeout)
}

// readFile returns nil, nil when the file does not exist.
func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return raw, nil
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
