// Package config provides application configuration loaded from environment variables.
package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// DatabaseConfig selects the storage engine.
// Driver is "sqlite" (DSN is a file path) or "postgres".
type DatabaseConfig struct {
	Driver     string
	DSN        string
	Debug      bool
	Migrations bool
	Seed       bool
}

// RedisConfig enables the shared catalog cache when Address is set.
type RedisConfig struct {
	Address    string
	Password   string
	DB         int
	CatalogTTL time.Duration
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool { return r.Address != "" }

// AppConfig holds shop-level behaviour switches.
type AppConfig struct {
	AtomicCheckout    bool
	LowStockThreshold int
	PhoneRegion       string
	LogLevel          string
}

// Load reads configuration from environment variables.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         getEnv("HOST", "127.0.0.1"),
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			DSN:        getEnv("DATABASE_DSN", "commcentre.db"),
			Debug:      getEnvBool("DB_DEBUG", false),
			Migrations: getEnvBool("MIGRATIONS", false),
			Seed:       getEnvBool("DB_SEED", false),
		},
		Redis: RedisConfig{
			Address:    getEnv("REDIS_ADDRESS", ""),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvInt("REDIS_DB", 0),
			CatalogTTL: time.Duration(getEnvInt("CATALOG_TTL", 300)) * time.Second,
		},
		App: AppConfig{
			AtomicCheckout:    getEnvBool("CHECKOUT_ATOMIC", true),
			LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 5),
			PhoneRegion:       strings.ToUpper(getEnv("PHONE_REGION", "LK")),
			LogLevel:          getEnv("LOG_LEVEL", "info"),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts strconv.ParseBool forms plus "yes"/"no"; anything else keeps the default.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	switch value {
	case "":
		return defaultValue
	case "yes":
		return true
	case "no":
		return false
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		GetLogger().Warnf("invalid boolean for %s: %s", key, value)
		return defaultValue
	}
	return b
}
