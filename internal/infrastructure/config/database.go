package config

import (
	"fmt"
	"time"
)

// DatabaseConfig chooses the store behind the repositories. Postgres reads
// URL when set and the discrete fields otherwise; SQLite only needs Path.
type DatabaseConfig struct {
	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`

	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	// ":memory:" keeps everything in-process
	Path string `mapstructure:"path"`

	// Applied to every statement that arrives without its own deadline
	QueryTimeout time.Duration `mapstructure:"query_timeout" validate:"required"`

	Pool PoolConfig `mapstructure:"pool"`
}

// PoolConfig sizes the Postgres connection pool. SQLite always runs on a
// single connection.
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" validate:"min=1"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// DSN returns the driver connection string for the configured type
func (c DatabaseConfig) DSN() string {
	switch c.Type {
	case "postgres":
		if c.URL != "" {
			return c.URL
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	case "sqlite":
		if c.Path == "" {
			return ":memory:"
		}
		return c.Path
	}
	return ""
}
