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

// Storage backends for the persisted state.
const (
	StorageFile  = "file"
	StorageRedis = "redis"
)

// Config captures everything the storefront needs at start.
type Config struct {
	CatalogURL      string
	AuthURL         string
	AuthAPIKey      string
	ProfileID       int
	RequestTimeout  time.Duration
	Storage         string
	StateDir        string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	LogLevel        string
	LogFormat       string
	RefreshInterval time.Duration
	MetricsAddr     string
}

const (
	defaultConfigPath      = "~/.config/storefront/config.toml"
	defaultCatalogURL      = "https://api.escuelajs.co/api/v1"
	defaultAuthURL         = "https://reqres.in/api"
	defaultProfileID       = 4
	defaultRequestTimeout  = 10 * time.Second
	defaultStateDir        = "~/.local/share/storefront"
	defaultRedisAddr       = "127.0.0.1:6379"
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
	defaultRefreshInterval = 60 * time.Second
	defaultMetricsAddr     = "127.0.0.1:9464"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		CatalogURL:      defaultCatalogURL,
		AuthURL:         defaultAuthURL,
		ProfileID:       defaultProfileID,
		RequestTimeout:  defaultRequestTimeout,
		Storage:         StorageFile,
		StateDir:        mustExpand(defaultStateDir),
		RedisAddr:       defaultRedisAddr,
		LogLevel:        defaultLogLevel,
		LogFormat:       defaultLogFormat,
		RefreshInterval: defaultRefreshInterval,
		MetricsAddr:     defaultMetricsAddr,
	}
}

// Load locates and parses the storefront config, falling back to defaults
// when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
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
		CatalogURL      string `toml:"catalog_url"`
		AuthURL         string `toml:"auth_url"`
		AuthAPIKey      string `toml:"auth_api_key"`
		ProfileID       int    `toml:"profile_id"`
		RequestTimeout  int    `toml:"request_timeout_seconds"`
		Storage         string `toml:"storage"`
		StateDir        string `toml:"state_dir"`
		RedisAddr       string `toml:"redis_addr"`
		RedisPassword   string `toml:"redis_password"`
		RedisDB         int    `toml:"redis_db"`
		LogLevel        string `toml:"log_level"`
		LogFormat       string `toml:"log_format"`
		RefreshInterval int    `toml:"refresh_interval_seconds"`
		MetricsAddr     string `toml:"metrics_addr"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.CatalogURL = orDefault(raw.CatalogURL, defaultCatalogURL)
	cfg.AuthURL = orDefault(raw.AuthURL, defaultAuthURL)
	cfg.AuthAPIKey = strings.TrimSpace(raw.AuthAPIKey)
	if raw.ProfileID > 0 {
		cfg.ProfileID = raw.ProfileID
	}
	if raw.RequestTimeout > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeout) * time.Second
	}

	cfg.Storage = strings.ToLower(orDefault(raw.Storage, StorageFile))
	if cfg.Storage != StorageFile && cfg.Storage != StorageRedis {
		return Config{}, fmt.Errorf("invalid storage %q: want %q or %q", raw.Storage, StorageFile, StorageRedis)
	}
	cfg.StateDir = mustExpand(orDefault(raw.StateDir, defaultStateDir))
	cfg.RedisAddr = orDefault(raw.RedisAddr, defaultRedisAddr)
	cfg.RedisPassword = raw.RedisPassword
	if raw.RedisDB < 0 {
		return Config{}, fmt.Errorf("invalid redis_db %d", raw.RedisDB)
	}
	cfg.RedisDB = raw.RedisDB

	cfg.LogLevel = orDefault(raw.LogLevel, defaultLogLevel)
	cfg.LogFormat = orDefault(raw.LogFormat, defaultLogFormat)
	if raw.RefreshInterval > 0 {
		cfg.RefreshInterval = time.Duration(raw.RefreshInterval) * time.Second
	}
	cfg.MetricsAddr = orDefault(raw.MetricsAddr, defaultMetricsAddr)

	return cfg, nil
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
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
