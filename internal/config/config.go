package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration. Every key can be overridden by
// the environment variable of the same name in upper case.
type Config struct {
	Port      string `mapstructure:"port"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	OptimizerBaseURL string        `mapstructure:"optimizer_base_url"`
	OptimizerTimeout time.Duration `mapstructure:"optimizer_timeout"`
	OptimizerRPS     float64       `mapstructure:"optimizer_rps"`
	OptimizerBurst   int           `mapstructure:"optimizer_burst"`
	OptionCount      int           `mapstructure:"option_count"`

	CacheEnabled  bool          `mapstructure:"cache_enabled"`
	RedisHost     string        `mapstructure:"redis_host"`
	RedisPort     string        `mapstructure:"redis_port"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	RedisTTL      time.Duration `mapstructure:"redis_ttl"`

	SessionIdleTTL time.Duration `mapstructure:"session_idle_ttl"`
	AllowOrigins   []string      `mapstructure:"allow_origins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	// A multi-option solve can take around three minutes.
	v.SetDefault("optimizer_base_url", "http://127.0.0.1:8000")
	v.SetDefault("optimizer_timeout", 185*time.Second)
	v.SetDefault("optimizer_rps", 2.0)
	v.SetDefault("optimizer_burst", 4)
	v.SetDefault("option_count", 3)

	v.SetDefault("cache_enabled", false)
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_ttl", 30*time.Minute)

	v.SetDefault("session_idle_ttl", 2*time.Hour)
	v.SetDefault("allow_origins", []string{"*"})
}

// Load reads configuration from an optional config.yaml and the environment.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AllowOrigins = splitOrigins(cfg.AllowOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Port == "" {
		errs = append(errs, "port is required")
	}
	if u, err := url.Parse(c.OptimizerBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("optimizer_base_url must be an absolute URL, got %q", c.OptimizerBaseURL))
	}
	if c.OptimizerTimeout <= 0 {
		errs = append(errs, "optimizer_timeout must be positive")
	}
	if c.OptimizerRPS <= 0 {
		errs = append(errs, "optimizer_rps must be positive")
	}
	if c.OptimizerBurst <= 0 {
		errs = append(errs, "optimizer_burst must be positive")
	}
	if c.OptionCount <= 0 {
		errs = append(errs, "option_count must be positive")
	}
	if c.CacheEnabled && c.RedisHost == "" {
		errs = append(errs, "redis_host is required when the cache is enabled")
	}
	if c.CacheEnabled && c.RedisTTL <= 0 {
		errs = append(errs, "redis_ttl must be positive when the cache is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// splitOrigins accepts either a list or a single comma separated value, which
// is how the origins arrive from the environment.
func splitOrigins(in []string) []string {
	var out []string
	for _, item := range in {
		for _, o := range strings.Split(item, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}
