// Package config loads SnipShare settings from the environment.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"

	"github.com/roguepikachu/snipshare/pkg/logger"
)

// Storage drivers understood by STORAGE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds environment configuration for SnipShare.
type Config struct {
	Port string `env:"SNIPSHARE_PORT" envDefault:"8080"`

	// StorageDriver selects the primary snippet store.
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"./snipshare.db"`

	// PostgresURL wins over the discrete Postgres fields when set.
	PostgresURL      string `env:"POSTGRES_URL"`
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"127.0.0.1"`
	PostgresPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"snipshare"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// CacheEnabled puts a Redis cache in front of a SQL store.
	CacheEnabled bool          `env:"CACHE_ENABLED" envDefault:"false"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Conf holds the process-wide configuration populated by InitConf.
var Conf Config

func loadDotEnv() error {
	// godotenv.Load never overrides variables already present in the environment.
	path := os.Getenv("DOTENV_PATHS")
	if path == "" {
		return nil
	}
	return godotenv.Load(strings.Split(path, ",")...)
}

// Load reads .env files named by DOTENV_PATHS and parses the environment into a Config.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverSQLite, DriverPostgres, DriverRedis:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.CacheEnabled && c.StorageDriver == DriverRedis {
		return fmt.Errorf("CACHE_ENABLED has no effect with STORAGE_DRIVER=redis")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative")
	}
	return nil
}

// PostgresDSN returns PostgresURL or a DSN assembled from the discrete fields.
func (c Config) PostgresDSN() string {
	if c.PostgresURL != "" {
		return c.PostgresURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSLMode)
}

// InitConf populates Conf, exiting the process on failure.
func InitConf() {
	c, err := Load()
	if err != nil {
		logger.Fatal(context.Background(), err.Error())
	}
	Conf = c
}
