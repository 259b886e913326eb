package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
server:
  port: 9090
  rate_limit_rps: 4.0
  rate_limit_burst: 10
auth:
  enabled: true
  api_key: secret
fetch:
  user_agent: audit-agent
  timeout_seconds: 10
  max_redirects: 3
  max_body_kb: 2048
analysis:
  deadline_seconds: 40
pagespeed:
  endpoint: https://psi.test/run
  api_key: psi-key
  timeout_seconds: 20
captcha:
  endpoint: https://captcha.test/verify
  secret: captcha-secret
quota:
  backend: redis
  daily_limit: 10
  redis_addr: localhost:6379
logging:
  development: false
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if !cfg.Auth.Enabled || cfg.Auth.APIKey != "secret" {
		t.Fatalf("expected auth enabled with secret key")
	}
	if cfg.Fetch.UserAgent != "audit-agent" || cfg.Fetch.MaxRedirects != 3 {
		t.Fatalf("expected fetch overrides to apply: %+v", cfg.Fetch)
	}
	if cfg.Quota.Backend != "redis" || cfg.Quota.DailyLimit != 10 {
		t.Fatalf("expected quota overrides to apply: %+v", cfg.Quota)
	}
	if cfg.Logging.Development {
		t.Fatal("expected development logging to be disabled")
	}
	if got := cfg.FetchTimeout(); got != 10*time.Second {
		t.Fatalf("expected fetch timeout 10s, got %v", got)
	}
	if got := cfg.AnalysisDeadline(); got != 40*time.Second {
		t.Fatalf("expected analysis deadline 40s, got %v", got)
	}
	if got := cfg.PageSpeedTimeout(); got != 20*time.Second {
		t.Fatalf("expected pagespeed timeout 20s, got %v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Fetch.TimeoutSeconds != 12 || cfg.Fetch.MaxRedirects != 5 {
		t.Fatalf("unexpected fetch defaults: %+v", cfg.Fetch)
	}
	if cfg.Analysis.DeadlineSeconds != 45 {
		t.Fatalf("expected default deadline 45s, got %d", cfg.Analysis.DeadlineSeconds)
	}
	if cfg.Quota.Backend != "memory" || cfg.Quota.DailyLimit != 5 {
		t.Fatalf("unexpected quota defaults: %+v", cfg.Quota)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Server:   ServerConfig{Port: 8080},
		Fetch:    FetchConfig{TimeoutSeconds: 12},
		Analysis: AnalysisConfig{DeadlineSeconds: 45},
		Quota:    QuotaConfig{Backend: "memory", DailyLimit: 5},
	}

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "invalid port",
			cfg: func() Config {
				c := base
				c.Server.Port = 0
				return c
			}(),
			want: "server.port",
		},
		{
			name: "invalid fetch timeout",
			cfg: func() Config {
				c := base
				c.Fetch.TimeoutSeconds = 0
				return c
			}(),
			want: "fetch.timeout_seconds",
		},
		{
			name: "deadline below fetch timeout",
			cfg: func() Config {
				c := base
				c.Analysis.DeadlineSeconds = 10
				return c
			}(),
			want: "analysis.deadline_seconds",
		},
		{
			name: "unknown quota backend",
			cfg: func() Config {
				c := base
				c.Quota.Backend = "etcd"
				return c
			}(),
			want: "quota.backend",
		},
		{
			name: "redis backend without address",
			cfg: func() Config {
				c := base
				c.Quota.Backend = "redis"
				return c
			}(),
			want: "quota.redis_addr",
		},
		{
			name: "postgres backend without dsn",
			cfg: func() Config {
				c := base
				c.Quota.Backend = "postgres"
				return c
			}(),
			want: "quota.postgres_dsn",
		},
		{
			name: "auth missing api key",
			cfg: func() Config {
				c := base
				c.Auth.Enabled = true
				return c
			}(),
			want: "auth.api_key",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
