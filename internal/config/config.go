// Package config loads the settings of the command line tool from an
// optional YAML file and MZCORE_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/524D/mzcore/internal/cache"
)

// EnvPrefix is the prefix of the environment variables that override the
// file, e.g. MZCORE_LOG_LEVEL.
const EnvPrefix = "MZCORE"

var (
	// ErrInvalidLogFormat means the log format is neither text nor json
	ErrInvalidLogFormat = errors.New("config: invalid log format")
	// ErrInvalidCacheSize means a negative cache size hint
	ErrInvalidCacheSize = errors.New("config: invalid cache size")
)

type Config struct {
	Log   LogConfig   `mapstructure:"log"`
	Cache CacheConfig `mapstructure:"cache"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CacheConfig holds initial capacities per cache category name.
type CacheConfig struct {
	Sizes map[string]int `mapstructure:"sizes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the file at path, if path is not empty, and applies the
// environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the log settings and the cache size hints.
func (c *Config) Validate() error {
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Log.Format)
	}
	_, err := c.Cache.Descriptors()
	return err
}

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return lvl, fmt.Errorf("config: log level: %w", err)
	}
	return lvl, nil
}

// NewLogger returns a logger writing to w in the configured format.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	lvl, err := l.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(l.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidLogFormat, l.Format)
}

// Descriptors turns the size hints into cache descriptor overrides. The
// storage kind of a category is kept.
func (c CacheConfig) Descriptors() (map[cache.Category]cache.Descriptor, error) {
	out := make(map[cache.Category]cache.Descriptor, len(c.Sizes))
	for name, size := range c.Sizes {
		cat, err := cache.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if size < 0 {
			return nil, fmt.Errorf("%w: %s: %d", ErrInvalidCacheSize, name, size)
		}
		d := cat.Descriptor()
		d.Size = size
		out[cat] = d
	}
	return out, nil
}
