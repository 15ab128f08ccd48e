package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/shhac/courier/internal/storage"
)

const (
	defaultConfigPath     = "~/.config/courier/config.toml"
	defaultRequestTimeout = 30 * time.Second
	defaultMaxInFlight    = 16
)

// Config holds application-wide configuration.
type Config struct {
	// Debug enables debug logging and additional diagnostics
	Debug bool

	// StoragePath is the directory where workspaces are stored
	StoragePath string

	// RequestTimeout bounds a single exchange. Zero disables the timeout.
	RequestTimeout time.Duration

	// MaxInFlight caps concurrent background sends.
	MaxInFlight int

	// CancelInFlight cancels a tab's previous send when it is sent again.
	CancelInFlight bool

	// SigningFailOpen sends requests unsigned when signing fails instead of
	// withholding them.
	SigningFailOpen bool

	// FollowRedirects makes the client follow 3xx responses.
	FollowRedirects bool

	// Path is the file the configuration was read from, if any.
	Path string
}

// fileConfig is the on-disk TOML shape.
type fileConfig struct {
	Debug           *bool  `toml:"debug"`
	StoragePath     string `toml:"storage_path"`
	RequestTimeout  string `toml:"request_timeout"`
	MaxInFlight     *int   `toml:"max_in_flight"`
	CancelInFlight  *bool  `toml:"cancel_in_flight"`
	SigningFailOpen *bool  `toml:"signing_fail_open"`
	FollowRedirects *bool  `toml:"follow_redirects"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:           false,
		StoragePath:     "", // Will use DefaultStoragePath() from storage package
		RequestTimeout:  defaultRequestTimeout,
		MaxInFlight:     defaultMaxInFlight,
		FollowRedirects: true,
	}
}

// LoadConfig builds the configuration from defaults, then the TOML file at
// path (or $COURIER_CONFIG, or ~/.config/courier/config.toml), then
// environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(path) == "" {
		path = os.Getenv("COURIER_CONFIG")
	}
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := cfg.merge(data); err != nil {
			return nil, fmt.Errorf("%s: %w", resolved, err)
		}
		cfg.Path = resolved
	}

	cfg.applyEnv()
	return cfg, nil
}

// ResolvedStoragePath returns the workspace directory, falling back to the
// platform default when StoragePath is unset.
func (c *Config) ResolvedStoragePath() (string, error) {
	if strings.TrimSpace(c.StoragePath) != "" {
		return expandPath(c.StoragePath)
	}
	path, err := storage.DefaultStoragePath()
	if err != nil {
		return "", fmt.Errorf("failed to determine storage path: %w", err)
	}
	return path, nil
}

// ConfigFromEnv creates a configuration from defaults and environment
// variables only.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	cfg.applyEnv()
	return cfg
}

// SaveConfig writes cfg as TOML to path, or to cfg.Path when path is empty.
func SaveConfig(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		path = cfg.Path
	}
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	out := fileConfig{
		Debug:           &cfg.Debug,
		StoragePath:     cfg.StoragePath,
		RequestTimeout:  cfg.RequestTimeout.String(),
		MaxInFlight:     &cfg.MaxInFlight,
		CancelInFlight:  &cfg.CancelInFlight,
		SigningFailOpen: &cfg.SigningFailOpen,
		FollowRedirects: &cfg.FollowRedirects,
	}
	data, err := toml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	cfg.Path = resolved
	return nil
}

func (c *Config) merge(data []byte) error {
	var raw fileConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if raw.Debug != nil {
		c.Debug = *raw.Debug
	}
	if p := strings.TrimSpace(raw.StoragePath); p != "" {
		expanded, err := expandPath(p)
		if err != nil {
			return fmt.Errorf("storage_path: %w", err)
		}
		c.StoragePath = expanded
	}
	if t := strings.TrimSpace(raw.RequestTimeout); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return fmt.Errorf("request_timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("request_timeout must not be negative")
		}
		c.RequestTimeout = d
	}
	if raw.MaxInFlight != nil {
		if *raw.MaxInFlight < 1 {
			return fmt.Errorf("max_in_flight must be at least 1")
		}
		c.MaxInFlight = *raw.MaxInFlight
	}
	if raw.CancelInFlight != nil {
		c.CancelInFlight = *raw.CancelInFlight
	}
	if raw.SigningFailOpen != nil {
		c.SigningFailOpen = *raw.SigningFailOpen
	}
	if raw.FollowRedirects != nil {
		c.FollowRedirects = *raw.FollowRedirects
	}
	return nil
}

// applyEnv reads COURIER_DEBUG and COURIER_STORAGE_PATH.
func (c *Config) applyEnv() {
	if debugStr := os.Getenv("COURIER_DEBUG"); debugStr != "" {
		if debug, err := strconv.ParseBool(debugStr); err == nil {
			c.Debug = debug
		}
	}

	if storagePath := os.Getenv("COURIER_STORAGE_PATH"); storagePath != "" {
		c.StoragePath = storagePath
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
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
