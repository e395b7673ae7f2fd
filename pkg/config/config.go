// Package config loads client settings from a TOML file and the environment.
//
// Values are resolved in this order, later sources winning:
//
//  1. built-in defaults
//  2. the TOML file (~/.config/canister/config.toml unless a path is given)
//  3. CANISTER_* environment variables
//
// Example file:
//
//	base_url   = "https://api.canister.me/v2"
//	generation = "v2"
//	timeout    = "10s"
//
//	[cache]
//	backend = "file"
//	ttl     = "24h"
//
//	[log]
//	level = "debug"
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"

	cerrors "github.com/matzehuels/canister/pkg/errors"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "CANISTER_"

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config holds client and CLI settings.
type Config struct {
	// BaseURL overrides the generation's public base URL.
	BaseURL    string        `toml:"base_url" env:"BASE_URL,overwrite"`
	Generation string        `toml:"generation" env:"GENERATION,overwrite,default=v2"`
	Timeout    time.Duration `toml:"timeout" env:"TIMEOUT,overwrite,default=10s"`

	Cache Cache `toml:"cache" env:",prefix=CACHE_"`
	Log   Log   `toml:"log" env:",prefix=LOG_"`
}

// Cache configures the response cache.
type Cache struct {
	Backend string        `toml:"backend" env:"BACKEND,overwrite,default=none"`
	TTL     time.Duration `toml:"ttl" env:"TTL,overwrite,default=24h"`

	// Dir is the file cache directory. Empty means the XDG cache directory.
	Dir string `toml:"dir" env:"DIR,overwrite"`

	RedisAddr     string `toml:"redis_addr" env:"REDIS_ADDR,overwrite,default=localhost:6379"`
	RedisPassword string `toml:"redis_password" env:"REDIS_PASSWORD,overwrite"`
	RedisDB       int    `toml:"redis_db" env:"REDIS_DB,overwrite"`
}

// Log configures CLI logging.
type Log struct {
	Level string `toml:"level" env:"LEVEL,overwrite,default=info"`
}

// DefaultPath returns ~/.config/canister/config.toml, honoring
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "canister", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "canister", "config.toml"), nil
}

// Load reads the configuration. An empty path means [DefaultPath], which
// may be missing; an explicit path must exist.
func Load(ctx context.Context, path string) (*Config, error) {
	return load(ctx, path, envconfig.OsLookuper())
}

func load(ctx context.Context, path string, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		_, err := toml.DecodeFile(path, &cfg)
		switch {
		case err == nil:
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case errors.Is(err, fs.ErrNotExist):
			return nil, cerrors.Wrap(cerrors.ErrCodeConfiguration, err, "config file %s not found", path)
		default:
			return nil, cerrors.Wrap(cerrors.ErrCodeConfiguration, err, "parse config file %s", path)
		}
	}

	if err := envconfig.ProcessWith(ctx, &cfg, envconfig.PrefixLookuper(EnvPrefix, lookuper)); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeConfiguration, err, "read environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Generation) {
	case "v1", "v2":
	default:
		return cerrors.Configuration("generation must be v1 or v2, got %q", c.Generation)
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile, CacheRedis:
	default:
		return cerrors.Configuration("cache.backend must be none, file or redis, got %q", c.Cache.Backend)
	}
	if c.Timeout < 0 || c.Cache.TTL < 0 {
		return cerrors.Configuration("durations must not be negative")
	}
	return nil
}

// CacheDir returns the file cache directory, defaulting to
// $XDG_CACHE_HOME/canister or ~/.cache/canister.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "canister"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "canister"), nil
}
