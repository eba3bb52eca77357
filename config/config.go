/*
Package config loads server configuration.

SOURCES (later wins):
  1. Built-in defaults
  2. Optional config file (.env, .yaml, .toml, .json; type from extension)
  3. Environment variables

  Command-line flags in cmd/server override the loaded values.

KEYS:
  HTTP_PORT             listen port                       (8080)
  DB_DRIVER             sqlite | postgres                 (sqlite)
  DATABASE_URL          SQLite path or PostgreSQL DSN     (rks.db)
  CORS_ALLOWED_ORIGINS  comma separated origins           (*)
  STOCK_ALLOW_NEGATIVE  allow stock to go below zero      (true)
  SHUTDOWN_TIMEOUT      graceful shutdown wait            (30s)
*/
package config

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Stock    StockConfig
}

type ServerConfig struct {
	Port            int
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver string
	URL    string
}

type StockConfig struct {
	AllowNegative bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URL", "rks.db")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("STOCK_ALLOW_NEGATIVE", true)
	v.SetDefault("SHUTDOWN_TIMEOUT", "30s")
}

// Load reads configuration. An empty path skips the config file; a path that
// does not exist is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(configType(path))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	v.AutomaticEnv()
	v.BindEnv("HTTP_PORT", "HTTP_PORT", "PORT")

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("HTTP_PORT"),
			AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("DB_DRIVER")),
			URL:    v.GetString("DATABASE_URL"),
		},
		Stock: StockConfig{
			AllowNegative: v.GetBool("STOCK_ALLOW_NEGATIVE"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case "sqlite", "sqlite3", "postgres", "postgresql", "pgx":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid SHUTDOWN_TIMEOUT %s", c.Server.ShutdownTimeout)
	}
	return nil
}

// LogSummary prints the effective configuration without secrets.
func (c *Config) LogSummary() {
	log.Printf("Configuration loaded:")
	log.Printf("- HTTP port: %d", c.Server.Port)
	log.Printf("- Database driver: %s", c.Database.Driver)
	log.Printf("- Database URL: %s", func() string {
		if c.Database.Driver == "sqlite" || c.Database.Driver == "sqlite3" {
			return c.Database.URL
		}
		return "SET"
	}())
	log.Printf("- Negative stock allowed: %t", c.Stock.AllowNegative)
	log.Printf("- CORS origins: %s", strings.Join(c.Server.AllowedOrigins, ","))
}

func configType(path string) string {
	switch ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext {
	case "yml":
		return "yaml"
	case "":
		return "env"
	default:
		return ext
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
