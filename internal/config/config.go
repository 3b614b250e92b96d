package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string   `env:"SERVER_PORT" envDefault:"8080"`
	DBDriver    string   `env:"DB_DRIVER" envDefault:"mysql"`
	DatabaseDSN string   `env:"DATABASE_DSN" envDefault:"user:password@tcp(localhost:3306)/medtrack?charset=utf8mb4&parseTime=True&loc=Local"`
	ResetDB     bool     `env:"RESET_DB"`
	RedisAddr   string   `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB     int      `env:"REDIS_DB" envDefault:"0"`
	RedisPass   string   `env:"REDIS_PASSWORD"`
	JWTSecret   string   `env:"JWT_SECRET" envDefault:"change-me"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string   `env:"LOG_FORMAT" envDefault:"json"`
	SwaggerHost string   `env:"SWAGGER_HOST"`

	Cookie CookieConfig
	MinIO  MinIOConfig
}

// CookieConfig controls the attributes of the session cookies.
type CookieConfig struct {
	Secure bool   `env:"COOKIE_SECURE"`
	Domain string `env:"COOKIE_DOMAIN"`
}

// MinIOConfig configures the optional object store used to archive CSV uploads.
// Archiving is disabled when Endpoint is empty.
type MinIOConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET" envDefault:"medtrack-uploads"`
	UseSSL    bool   `env:"MINIO_USE_SSL"`
}

// Enabled reports whether object storage has been configured.
func (m MinIOConfig) Enabled() bool {
	return m.Endpoint != ""
}

// Load builds Config from the environment, reading a .env file first when one exists.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN must not be empty")
	}
	return nil
}
