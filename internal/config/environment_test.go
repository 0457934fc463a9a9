package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DOTENV_PATHS", "")
	t.Setenv("STORAGE_DRIVER", "")
	os.Unsetenv("STORAGE_DRIVER")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Port != "8080" {
		t.Fatalf("want port 8080, got %q", c.Port)
	}
	if c.StorageDriver != DriverSQLite {
		t.Fatalf("want sqlite driver, got %q", c.StorageDriver)
	}
	if c.CacheTTL != 5*time.Minute {
		t.Fatalf("want 5m cache ttl, got %v", c.CacheTTL)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("SNIPSHARE_PORT=9191\nSTORAGE_DRIVER=Postgres\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("DOTENV_PATHS", path)
	t.Setenv("SNIPSHARE_PORT", "")
	t.Setenv("STORAGE_DRIVER", "")
	os.Unsetenv("SNIPSHARE_PORT")
	os.Unsetenv("STORAGE_DRIVER")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Port != "9191" {
		t.Fatalf("want port from dotenv, got %q", c.Port)
	}
	if c.StorageDriver != DriverPostgres {
		t.Fatalf("driver should be normalized, got %q", c.StorageDriver)
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("DOTENV_PATHS", "")
	t.Setenv("STORAGE_DRIVER", "mongo")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestValidate_CacheOverRedis(t *testing.T) {
	c := Config{StorageDriver: DriverRedis, CacheEnabled: true}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error when caching a redis store")
	}
}

func TestPostgresDSN(t *testing.T) {
	c := Config{
		PostgresHost: "db", PostgresPort: "5433", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "snips", PostgresSSLMode: "disable",
	}
	want := "postgres://u:p@db:5433/snips?sslmode=disable"
	if got := c.PostgresDSN(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	c.PostgresURL = "postgres://override"
	if got := c.PostgresDSN(); got != "postgres://override" {
		t.Fatalf("url should win, got %q", got)
	}
}
