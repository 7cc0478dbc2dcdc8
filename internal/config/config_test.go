package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := writeConfig(t, `
jwt:
  secret: test-secret
  expire_hours: 2
storage:
  type: local
  local_path: `+filepath.Join(t.TempDir(), "uploads")+`
`)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "mysql" {
		t.Errorf("Database.Driver = %q, want mysql", cfg.Database.Driver)
	}
	if cfg.JWT.ExpireTime != 2*time.Hour {
		t.Errorf("JWT.ExpireTime = %v, want 2h", cfg.JWT.ExpireTime)
	}
	if cfg.OutlineTTL() != 10*time.Minute {
		t.Errorf("OutlineTTL() = %v, want 10m", cfg.OutlineTTL())
	}
	if cfg.RateLimit.MaxRequests != 600 {
		t.Errorf("RateLimit.MaxRequests = %d, want 600", cfg.RateLimit.MaxRequests)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := writeConfig(t, `
jwt:
  secret: file-secret
database:
  driver: mysql
  host: db.internal
`)
	t.Setenv("DATABASE_HOST", "db.override")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Database.Host != "db.override" {
		t.Errorf("Database.Host = %q, want db.override", cfg.Database.Host)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("JWT.Secret = %q, want env-secret", cfg.JWT.Secret)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Server:   ServerConfig{Mode: "debug"},
			Database: DatabaseConfig{Driver: "mysql"},
			JWT:      JWTConfig{Secret: "secret"},
			Storage:  StorageConfig{Type: "local"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing-secret", func(c *Config) { c.JWT.Secret = "" }, true},
		{"short-secret-release", func(c *Config) { c.Server.Mode = "release" }, true},
		{"postgres", func(c *Config) { c.Database.Driver = "postgres" }, false},
		{"unknown-driver", func(c *Config) { c.Database.Driver = "oracle" }, true},
		{"unknown-storage", func(c *Config) { c.Storage.Type = "ftp" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
