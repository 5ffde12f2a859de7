package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.BasePath != "/api/v1" || cfg.App.Addr() != "0.0.0.0:8080" {
		t.Fatalf("unexpected app config %+v", cfg.App)
	}
	if cfg.Storage.Driver != DriverPostgres {
		t.Fatalf("default driver = %q", cfg.Storage.Driver)
	}
	if cfg.Auth.JWTAlgorithm != "HS256" {
		t.Fatalf("default algorithm = %q", cfg.Auth.JWTAlgorithm)
	}
	if cfg.Auth.AccessTTL() != 30*time.Minute {
		t.Fatalf("access ttl = %v", cfg.Auth.AccessTTL())
	}
	if cfg.Auth.RefreshTTL() != 7*24*time.Hour {
		t.Fatalf("refresh ttl = %v", cfg.Auth.RefreshTTL())
	}
	if cfg.Auth.IdentityLookupTimeout() != 2*time.Second {
		t.Fatalf("lookup timeout = %v", cfg.Auth.IdentityLookupTimeout())
	}
	if cfg.Auth.LoginMaxAttempts != 5 || cfg.Auth.LoginWindow() != 15*time.Minute {
		t.Fatalf("unexpected login budget %d/%v", cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow())
	}
	if cfg.App.RequestTimeout() != 30*time.Second {
		t.Fatalf("request timeout = %v", cfg.App.RequestTimeout())
	}
	if cfg.Redis.Timeout() != 500*time.Millisecond {
		t.Fatalf("redis timeout = %v", cfg.Redis.Timeout())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "another-secret")
	t.Setenv("AUTH_JWT_ALGORITHM", "HS512")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "5")
	t.Setenv("AUTH_REFRESH_TOKEN_TTL_DAYS", "1")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/phonebook.db")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.JWTSecret != "another-secret" || cfg.Auth.JWTAlgorithm != "HS512" {
		t.Fatalf("unexpected auth config %+v", cfg.Auth)
	}
	if cfg.Auth.AccessTTL() != 5*time.Minute || cfg.Auth.RefreshTTL() != 24*time.Hour {
		t.Fatalf("unexpected ttls %v/%v", cfg.Auth.AccessTTL(), cfg.Auth.RefreshTTL())
	}
	if cfg.Storage.Driver != DriverSQLite || cfg.Storage.SQLitePath != "/tmp/phonebook.db" {
		t.Fatalf("unexpected storage config %+v", cfg.Storage)
	}
	if cfg.App.RequestTimeout() != 0 {
		t.Fatalf("expected disabled request timeout, got %v", cfg.App.RequestTimeout())
	}
}

func TestLoadRejectsUnparsableValues(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	// Setenv first so the original value is restored after the test.
	t.Setenv("AUTH_JWT_SECRET", "")
	if err := os.Unsetenv("AUTH_JWT_SECRET"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}
	cfg, err := Load()
	if err == nil {
		t.Fatalf("expected missing secret to fail, got secret %q", cfg.Auth.JWTSecret)
	}
	if !strings.Contains(err.Error(), "AUTH_JWT_SECRET") {
		t.Fatalf("error %q does not mention AUTH_JWT_SECRET", err)
	}

	t.Setenv("AUTH_JWT_SECRET", "")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "AUTH_JWT_SECRET") {
		t.Fatalf("expected empty secret to fail, got %v", err)
	}
}

func validConfig() Config {
	return Config{
		Storage: StorageConfig{Driver: DriverPostgres},
		Auth: AuthConfig{
			JWTSecret:             "secret",
			JWTAlgorithm:          "HS256",
			AccessTokenTTLMinutes: 30,
			RefreshTokenTTLDays:   7,
		},
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mysql" }, "STORAGE_DRIVER"},
		{"sqlite without path", func(c *Config) { c.Storage.Driver = DriverSQLite }, "SQLITE_PATH"},
		{"empty secret", func(c *Config) { c.Auth.JWTSecret = "" }, "AUTH_JWT_SECRET"},
		{"asymmetric algorithm", func(c *Config) { c.Auth.JWTAlgorithm = "RS256" }, "AUTH_JWT_ALGORITHM"},
		{"zero access ttl", func(c *Config) { c.Auth.AccessTokenTTLMinutes = 0 }, "AUTH_ACCESS_TOKEN_TTL_MINUTES"},
		{"negative refresh ttl", func(c *Config) { c.Auth.RefreshTokenTTLDays = -1 }, "AUTH_REFRESH_TOKEN_TTL_DAYS"},
		{"refresh shorter than access", func(c *Config) {
			c.Auth.AccessTokenTTLMinutes = 48 * 60
			c.Auth.RefreshTokenTTLDays = 1
		}, "longer than access"},
		{"negative lookup timeout", func(c *Config) { c.Auth.IdentityLookupTimeoutMS = -5 }, "AUTH_IDENTITY_LOOKUP_TIMEOUT_MS"},
	}

	base := validConfig()
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = ""
	cfg.Storage.Driver = "mongo"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"AUTH_JWT_SECRET", "STORAGE_DRIVER"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %q", err, want)
		}
	}
}
