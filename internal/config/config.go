package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for our application
type Config struct {
	Port        string
	Origin      string
	Environment string
	JWTSecret   string
	LogLevel    string
	Database    DatabaseConfig
	Chat        ChatConfig
	RateLimit   RateLimitConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// ChatConfig holds tunables of the conversation engine
type ChatConfig struct {
	TypingWindow time.Duration
}

// RateLimitConfig holds request throttling settings
type RateLimitConfig struct {
	TypingPerSecond int
}

// environment lists every variable LoadConfig reads
type environment struct {
	Port            string `envconfig:"PORT" default:"3000"`
	Origin          string `envconfig:"ORIGIN" default:"http://localhost:4200"`
	Environment     string `envconfig:"NODE_ENV" default:"development"`
	JWTSecret       string `envconfig:"JWT_SECRET" default:"default_jwt_secret"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
	DBDriver        string `envconfig:"DB_DRIVER" default:"mysql"`
	DBHost          string `envconfig:"DB_HOST" default:"localhost"`
	DBPort          string `envconfig:"DB_PORT"`
	DBUsername      string `envconfig:"DB_USERNAME" default:"root"`
	DBPassword      string `envconfig:"DB_PASSWORD"`
	DBName          string `envconfig:"DB_NAME" default:"rehoming_chat"`
	TypingWindowMs  int    `envconfig:"TYPING_WINDOW_MS" default:"10000"`
	TypingPerSecond int    `envconfig:"TYPING_RATE_LIMIT_PER_SECOND" default:"5"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	var env environment
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	dbConfig := DatabaseConfig{
		Driver:   strings.ToLower(env.DBDriver),
		Host:     env.DBHost,
		Port:     env.DBPort,
		Username: env.DBUsername,
		Password: env.DBPassword,
		Name:     env.DBName,
	}

	dsn, err := buildDSN(&dbConfig)
	if err != nil {
		return nil, err
	}
	dbConfig.DSN = dsn

	if env.TypingWindowMs <= 0 {
		return nil, fmt.Errorf("invalid TYPING_WINDOW_MS: must be positive, got %d", env.TypingWindowMs)
	}
	if env.TypingPerSecond <= 0 {
		return nil, fmt.Errorf("invalid TYPING_RATE_LIMIT_PER_SECOND: must be positive, got %d", env.TypingPerSecond)
	}

	return &Config{
		Port:        env.Port,
		Origin:      env.Origin,
		Environment: env.Environment,
		JWTSecret:   env.JWTSecret,
		LogLevel:    env.LogLevel,
		Database:    dbConfig,
		Chat: ChatConfig{
			TypingWindow: time.Duration(env.TypingWindowMs) * time.Millisecond,
		},
		RateLimit: RateLimitConfig{
			TypingPerSecond: env.TypingPerSecond,
		},
	}, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// buildDSN fills in the driver-specific default port and returns the
// connection string for the configured driver.
func buildDSN(db *DatabaseConfig) (string, error) {
	switch db.Driver {
	case "mysql":
		if db.Port == "" {
			db.Port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			db.Username, db.Password, db.Host, db.Port, db.Name), nil
	case "postgres":
		if db.Port == "" {
			db.Port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			db.Host, db.Username, db.Password, db.Name, db.Port), nil
	case "sqlite":
		// DB_NAME is the database file path for sqlite
		return db.Name + "?_foreign_keys=on&_busy_timeout=5000", nil
	default:
		return "", fmt.Errorf("invalid DB_DRIVER %q: must be one of mysql, postgres, sqlite", db.Driver)
	}
}
