package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func TestLoadWithPath_Defaults(t *testing.T) {
	path := writeEnvFile(t, "")

	cfg, err := LoadWithPath(path)
	if err != nil {
		t.Fatalf("LoadWithPath() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.JWT.AccessTokenTTL != 15*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 15m", cfg.JWT.AccessTokenTTL)
	}
	if cfg.JWT.RefreshTokenTTL != 168*time.Hour {
		t.Errorf("RefreshTokenTTL = %v, want 168h", cfg.JWT.RefreshTokenTTL)
	}
	if cfg.Redis.Enabled {
		t.Error("Redis.Enabled = true, want false by default")
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true by default")
	}
}

func TestLoadWithPath_Overrides(t *testing.T) {
	path := writeEnvFile(t, `
SERVER_PORT=9090
JWT_ACCESS_TOKEN_TTL=5m
RATE_LIMIT_ENABLED=true
RATE_LIMIT_LIMIT=20
RATE_LIMIT_WINDOW=30s
`)

	cfg, err := LoadWithPath(path)
	if err != nil {
		t.Fatalf("LoadWithPath() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.JWT.AccessTokenTTL != 5*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 5m", cfg.JWT.AccessTokenTTL)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.Limit != 20 || cfg.RateLimit.Window != 30*time.Second {
		t.Errorf("RateLimit = %+v", cfg.RateLimit)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		path := writeEnvFile(t, "")
		cfg, err := LoadWithPath(path)
		if err != nil {
			t.Fatalf("setup: %v", err)
		}
		return cfg
	}

	t.Run("identical secrets rejected", func(t *testing.T) {
		cfg := base()
		cfg.JWT.RefreshSecret = cfg.JWT.AccessSecret
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() = nil, want error for identical secrets")
		}
	})

	t.Run("default secrets rejected in production", func(t *testing.T) {
		cfg := base()
		cfg.App.Environment = "production"
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() = nil, want error for default secrets in production")
		}
	})

	t.Run("invalid port rejected", func(t *testing.T) {
		cfg := base()
		cfg.Server.Port = 70000
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() = nil, want error for invalid port")
		}
	})

	t.Run("rate limit sanity", func(t *testing.T) {
		cfg := base()
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.Limit = 0
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() = nil, want error for zero limit")
		}
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := &DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "app",
		Password: "secret",
		DBName:   "users_db",
		SSLMode:  "require",
	}

	want := "host=db.internal port=5433 user=app password=secret dbname=users_db sslmode=require"
	if d.DSN() != want {
		t.Errorf("DSN() = %q, want %q", d.DSN(), want)
	}
}
