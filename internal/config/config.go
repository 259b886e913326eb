// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	PageSpeed PageSpeedConfig `mapstructure:"pagespeed"`
	Captcha   CaptchaConfig   `mapstructure:"captcha"`
	Quota     QuotaConfig     `mapstructure:"quota"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port           int     `mapstructure:"port"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// AuthConfig defines API authentication toggles.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

// FetchConfig governs page download behavior.
type FetchConfig struct {
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRedirects   int    `mapstructure:"max_redirects"`
	MaxBodyKB      int    `mapstructure:"max_body_kb"`
}

// AnalysisConfig bounds the end-to-end pipeline.
type AnalysisConfig struct {
	DeadlineSeconds int `mapstructure:"deadline_seconds"`
}

// PageSpeedConfig configures the performance API client.
type PageSpeedConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// CaptchaConfig configures token verification. An empty secret
// disables verification entirely.
type CaptchaConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	Secret         string `mapstructure:"secret"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// QuotaConfig selects and configures the usage limiter backend.
type QuotaConfig struct {
	Backend       string `mapstructure:"backend"`
	DailyLimit    int    `mapstructure:"daily_limit"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	PostgresDSN   string `mapstructure:"postgres_dsn"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_rps", 2.0)
	v.SetDefault("server.rate_limit_burst", 5)
	v.SetDefault("fetch.user_agent", "pagepulse-audit/1.0")
	v.SetDefault("fetch.timeout_seconds", 12)
	v.SetDefault("fetch.max_redirects", 5)
	v.SetDefault("fetch.max_body_kb", 10240)
	v.SetDefault("analysis.deadline_seconds", 45)
	v.SetDefault("pagespeed.endpoint", "https://www.googleapis.com/pagespeedonline/v5/runPagespeed")
	v.SetDefault("pagespeed.timeout_seconds", 30)
	v.SetDefault("captcha.endpoint", "https://www.google.com/recaptcha/api/siteverify")
	v.SetDefault("captcha.timeout_seconds", 5)
	v.SetDefault("quota.backend", "memory")
	v.SetDefault("quota.daily_limit", 5)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	if c.Fetch.MaxRedirects < 0 {
		return fmt.Errorf("fetch.max_redirects must be >= 0")
	}
	if c.Analysis.DeadlineSeconds <= c.Fetch.TimeoutSeconds {
		return fmt.Errorf("analysis.deadline_seconds must exceed fetch.timeout_seconds")
	}
	if c.Quota.DailyLimit <= 0 {
		return fmt.Errorf("quota.daily_limit must be > 0")
	}
	switch c.Quota.Backend {
	case "memory":
	case "redis":
		if c.Quota.RedisAddr == "" {
			return fmt.Errorf("quota.redis_addr must be set for the redis backend")
		}
	case "postgres":
		if c.Quota.PostgresDSN == "" {
			return fmt.Errorf("quota.postgres_dsn must be set for the postgres backend")
		}
	default:
		return fmt.Errorf("quota.backend must be memory, redis, or postgres")
	}
	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key must be set when auth is enabled")
	}
	return nil
}

// FetchTimeout converts the fetch timeout knob into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// AnalysisDeadline converts the pipeline deadline knob into a duration.
func (c Config) AnalysisDeadline() time.Duration {
	return time.Duration(c.Analysis.DeadlineSeconds) * time.Second
}

// PageSpeedTimeout converts the performance API timeout into a duration.
func (c Config) PageSpeedTimeout() time.Duration {
	return time.Duration(c.PageSpeed.TimeoutSeconds) * time.Second
}

// CaptchaTimeout converts the verification timeout into a duration.
func (c Config) CaptchaTimeout() time.Duration {
	return time.Duration(c.Captcha.TimeoutSeconds) * time.Second
}
