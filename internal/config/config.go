// Package config loads the optional relmap configuration file.
//
// The file lives at $XDG_CONFIG_HOME/relmap/config.toml (falling back to
// ~/.config/relmap/config.toml) and sets defaults for flags that would
// otherwise be repeated on every invocation. A missing file yields the
// built-in defaults; a malformed file is an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/relmap/pkg/pipeline"
)

// Cache backend names accepted in the [cache] section.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the top-level configuration.
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// RenderConfig sets artifact defaults.
type RenderConfig struct {
	Formats  []string `toml:"formats"`
	Title    string   `toml:"title"`
	Height   string   `toml:"height"`
	Directed bool     `toml:"directed"`
	Engine   string   `toml:"engine"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"`    // file, redis, none
	RedisAddr string `toml:"redis_addr"` // host:port, backend=redis only
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{
			Formats: []string{pipeline.FormatHTML},
			Title:   pipeline.DefaultTitle,
			Height:  pipeline.DefaultHeight,
			Engine:  pipeline.DefaultEngine,
		},
		Cache: CacheConfig{
			Backend:   CacheFile,
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Path returns the configuration file location using XDG conventions.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "relmap", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "relmap", "config.toml"), nil
}

// Load reads the configuration file at path, layering it over the defaults.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

// LoadDefault loads the configuration from the standard location.
func LoadDefault() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("invalid cache backend: %q (must be file, redis, or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return fmt.Errorf("cache backend redis requires redis_addr")
	}
	return pipeline.ValidateFormats(c.Render.Formats)
}
