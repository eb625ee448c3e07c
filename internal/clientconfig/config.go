// Package clientconfig loads the settings of the grafik terminal client from
// a TOML file, with environment overrides.
package clientconfig

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Server ServerConfig `toml:"server"`
	Grid   GridConfig   `toml:"grid"`
	Cache  CacheConfig  `toml:"cache"`
}

type ServerConfig struct {
	URL          string `toml:"url"`
	Token        string `toml:"token"`
	RefreshToken string `toml:"refresh_token"`
	// Timeout bounds every API call, e.g. "15s".
	Timeout string `toml:"timeout"`
}

type GridConfig struct {
	// DefaultDepartment is used when no --department flag is given; zero
	// lets the server pick the caller's main department.
	DefaultDepartment int64 `toml:"default_department"`
}

type CacheConfig struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:     "http://localhost:8080",
			Timeout: "15s",
		},
		Cache: CacheConfig{
			Path: defaultCachePath(),
		},
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "grafik-cache.db"
	}
	return filepath.Join(home, ".cache", "grafik", "cache.db")
}

// DefaultConfigPath returns ~/.config/grafik/config.toml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "grafik", "config.toml")
}

func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom starts from Default, overlays the file at path when it exists
// and applies GRAFIK_* environment overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.Cache.Path = expandPath(cfg.Cache.Path)
	cfg.Server.URL = strings.TrimRight(cfg.Server.URL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GRAFIK_SERVER"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("GRAFIK_TOKEN"); v != "" {
		cfg.Server.Token = v
	}
	if v := os.Getenv("GRAFIK_DEPARTMENT"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Grid.DefaultDepartment = id
		}
	}
	if v := os.Getenv("GRAFIK_CACHE"); v != "" {
		cfg.Cache.Path = v
	}
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server.url must be an http(s) URL, got %q", c.Server.URL)
	}
	if _, err := time.ParseDuration(c.Server.Timeout); err != nil {
		return fmt.Errorf("server.timeout: %w", err)
	}
	if c.Grid.DefaultDepartment < 0 {
		return errors.New("grid.default_department must not be negative")
	}
	if c.Cache.Path == "" {
		return errors.New("cache.path must be set")
	}
	return nil
}

// RequestTimeout returns the parsed server.timeout, 15s when unparseable.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the config to path. The file holds the access token, so it
// is readable by the owner only.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
