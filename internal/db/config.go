package db

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/yourorg/eztech-media/internal/config"
)

// Config holds PostgreSQL connection parameters for the promotion store.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // disable, require, verify-ca, verify-full
	// If provided, DSN takes precedence over other fields.
	DSN      string
	MaxConns int32
	// ConnectTimeout bounds Connect, including the initial ping.
	ConnectTimeout time.Duration
}

// FromEnv loads configuration from environment variables.
// DB_DSN overrides individual fields if set.
func FromEnv() Config {
	return Config{
		Host:           config.EnvString("DB_HOST", "localhost"),
		Port:           config.EnvInt("DB_PORT", 5432),
		User:           config.EnvString("DB_USER", "postgres"),
		Password:       config.EnvString("DB_PASSWORD", ""),
		DBName:         config.EnvString("DB_NAME", "eztech"),
		SSLMode:        config.EnvString("DB_SSLMODE", "disable"),
		DSN:            os.Getenv("DB_DSN"),
		MaxConns:       int32(config.EnvInt("DB_MAX_CONNS", 8)),
		ConnectTimeout: 5 * time.Second,
	}
}

func (c Config) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}
