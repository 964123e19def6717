package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/unkn0wn-root/tojson/codec"
)

// Config is the YAML file layout. Command-line flags override it.
type Config struct {
	From       string      `yaml:"from"`
	MaxPayload int         `yaml:"max_payload"`
	Cache      CacheConfig `yaml:"cache"`
	Log        LogConfig   `yaml:"log"`
}

type CacheConfig struct {
	Backend   string          `yaml:"backend"` // none, ristretto, bigcache, redis
	TTL       time.Duration   `yaml:"ttl"`
	Namespace string          `yaml:"namespace"`
	Ristretto RistrettoConfig `yaml:"ristretto"`
	BigCache  BigCacheConfig  `yaml:"bigcache"`
	Redis     RedisConfig     `yaml:"redis"`
}

type RistrettoConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
	Metrics  bool  `yaml:"metrics"`
}

type BigCacheConfig struct {
	Shards             int `yaml:"shards"`
	HardMaxCacheSizeMB int `yaml:"hard_max_cache_size_mb"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	DB       int    `yaml:"db"`
	Password string `yaml:"password"`
	Prefix   string `yaml:"prefix"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

func defaultConfig() Config {
	return Config{
		From: codec.FormatMsgpack,
		Cache: CacheConfig{
			Backend:   "none",
			TTL:       10 * time.Minute,
			Namespace: "tojson",
			Ristretto: RistrettoConfig{MaxBytes: 64 << 20},
			Redis:     RedisConfig{Addr: "localhost:6379"},
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// loadConfig reads path over the defaults. An empty path returns the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, ok := codec.Defaults()[c.From]; !ok {
		return fmt.Errorf("unknown input format %q", c.From)
	}
	if c.MaxPayload < 0 {
		return fmt.Errorf("max_payload must not be negative")
	}
	switch c.Cache.Backend {
	case "", "none", "ristretto", "bigcache", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "bigcache" && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl is required for the bigcache backend")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
