package config

import (
	"fmt"
	"os"
)

const (
	postgresHostEnv     = "POSTGRES_HOST"
	postgresPortEnv     = "POSTGRES_PORT"
	postgresUserEnv     = "POSTGRES_USER"
	postgresPasswordEnv = "POSTGRES_PASSWORD"
	postgresDBEnv       = "POSTGRES_DB"
	postgresSSLModeEnv  = "POSTGRES_SSLMODE"
)

// PostgresConfig holds connection settings for the lead store. An empty
// Host disables the lead store entirely; the scheduler does not depend
// on it.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

func LoadPostgresConfig() *PostgresConfig {
	port := os.Getenv(postgresPortEnv)
	if port == "" {
		port = "5432"
	}

	sslMode := os.Getenv(postgresSSLModeEnv)
	if sslMode == "" {
		sslMode = "disable"
	}

	return &PostgresConfig{
		Host:     os.Getenv(postgresHostEnv),
		Port:     port,
		User:     os.Getenv(postgresUserEnv),
		Password: os.Getenv(postgresPasswordEnv),
		Database: os.Getenv(postgresDBEnv),
		SSLMode:  sslMode,
	}
}

func (c *PostgresConfig) Enabled() bool {
	return c != nil && c.Host != ""
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}
