// Package config loads debt-planner settings from an optional YAML file and
// DEBTPLAN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"debt-planner/logging"
)

const envPrefix = "DEBTPLAN"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Cache     CacheConfig     `mapstructure:"cache"`
	History   HistoryConfig   `mapstructure:"history"`
	Log       logging.Config  `mapstructure:"log"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RateLimitConfig sizes the per-client token bucket on POST routes.
type RateLimitConfig struct {
	Capacity int           `mapstructure:"capacity"`
	Refill   time.Duration `mapstructure:"refill"`
}

// CacheConfig selects the projection cache. An empty RedisAddr keeps results
// in process memory.
type CacheConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
}

// HistoryConfig selects where projection history lives. An empty PostgresDSN
// keeps it in process memory.
type HistoryConfig struct {
	PostgresDSN   string        `mapstructure:"postgres_dsn"`
	Retention     time.Duration `mapstructure:"retention"`
	PruneSchedule string        `mapstructure:"prune_schedule"`
}

const (
	DefaultAddr            = ":8080"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRateCapacity    = 5
	DefaultRateRefill      = time.Minute
	DefaultCacheTTL        = 10 * time.Minute
	DefaultCachePrefix     = "debtplan:projection:"
	DefaultRetention       = 90 * 24 * time.Hour
	DefaultPruneSchedule   = "@daily"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
)

// ApplyDefaults fills every zero-valued field.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.RateLimit.Capacity == 0 {
		cfg.RateLimit.Capacity = DefaultRateCapacity
	}
	if cfg.RateLimit.Refill == 0 {
		cfg.RateLimit.Refill = DefaultRateRefill
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = DefaultCachePrefix
	}
	if cfg.History.Retention == 0 {
		cfg.History.Retention = DefaultRetention
	}
	if cfg.History.PruneSchedule == "" {
		cfg.History.PruneSchedule = DefaultPruneSchedule
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 {
		errs = append(errs, errors.New("server timeouts must not be negative"))
	}
	if c.RateLimit.Capacity < 0 {
		errs = append(errs, fmt.Errorf("rate_limit.capacity must not be negative, got %d", c.RateLimit.Capacity))
	}
	if c.RateLimit.Refill < 0 {
		errs = append(errs, fmt.Errorf("rate_limit.refill must not be negative, got %s", c.RateLimit.Refill))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL))
	}
	if c.History.Retention < 0 {
		errs = append(errs, fmt.Errorf("history.retention must not be negative, got %s", c.History.Retention))
	}
	if _, err := cron.ParseStandard(c.History.PruneSchedule); err != nil {
		errs = append(errs, fmt.Errorf("history.prune_schedule %q: %w", c.History.PruneSchedule, err))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows about.
	for _, key := range []string{
		"server.addr", "server.read_timeout", "server.write_timeout", "server.idle_timeout", "server.shutdown_timeout",
		"rate_limit.capacity", "rate_limit.refill",
		"cache.redis_addr", "cache.redis_password", "cache.redis_db", "cache.ttl", "cache.key_prefix",
		"history.postgres_dsn", "history.retention", "history.prune_schedule",
		"log.level", "log.format", "log.output",
	} {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads path when it is non-empty, merges environment overrides, applies
// defaults and validates.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
