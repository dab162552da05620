// Package config loads server configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port string `yaml:"port"`

	// SQLiteDBPath is the path of the SQLite database file.
	SQLiteDBPath string `yaml:"sqlite_db_path"`

	// RedisAddr enables the Redis settlement-plan cache when set;
	// empty means the in-process cache.
	RedisAddr string `yaml:"redis_addr"`

	// AuditCron is the cron expression for the zero-sum audit sweep.
	AuditCron string `yaml:"audit_cron"`

	// PlanCacheTTL bounds the lifetime of cached settlement plans.
	PlanCacheTTL time.Duration `yaml:"plan_cache_ttl"`
}

// Load builds the config from defaults, then the YAML file named by
// CONFIG_PATH (if any), then environment variable overrides.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         "8080",
		SQLiteDBPath: "./data/fairshare.db",
		AuditCron:    "@hourly",
		PlanCacheTTL: 5 * time.Minute,
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.SQLiteDBPath = getEnv("SQLITE_DB_PATH", cfg.SQLiteDBPath)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.AuditCron = getEnv("AUDIT_CRON", cfg.AuditCron)
	cfg.PlanCacheTTL = getEnvDuration("PLAN_CACHE_TTL", cfg.PlanCacheTTL)

	return cfg, nil
}

// Validate checks the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port '%s': must be a number", c.Port)
	} else if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	if c.SQLiteDBPath == "" {
		return fmt.Errorf("sqlite_db_path must not be empty")
	}
	if c.PlanCacheTTL < 0 {
		return fmt.Errorf("plan_cache_ttl must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
