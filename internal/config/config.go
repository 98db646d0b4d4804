package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is built once at startup and handed to constructors.
type Config struct {
	Env         string
	LogLevel    string
	MetricsAddr string
	Storage     Storage
	Mail        Mail
}

// Storage configures the image blob gateway and its backend.
type Storage struct {
	Driver           string // s3 or badger
	ConnectionString string // Key=Value; pairs, see storage.ParseConnectionString
	Container        string
	PlaceholderPath  string // optional; the bundled placeholder is used when empty
	OpTimeout        time.Duration
	AllowWipe        bool
}

// Mail configures the SMTP gateway.
type Mail struct {
	Host     string
	Port     int
	Login    string
	Password string
	Timeout  time.Duration
}

// FromEnv loads configuration from environment variables.
func FromEnv() Config {
	return Config{
		Env:         strings.ToLower(EnvString("APP_ENV", EnvDevelopment)),
		LogLevel:    EnvString("LOG_LEVEL", "info"),
		MetricsAddr: EnvString("METRICS_ADDR", ":9090"),
		Storage: Storage{
			Driver:           strings.ToLower(EnvString("STORAGE_DRIVER", "s3")),
			ConnectionString: os.Getenv("STORAGE_CONNECTION_STRING"),
			Container:        EnvString("STORAGE_CONTAINER", "images"),
			PlaceholderPath:  os.Getenv("STORAGE_PLACEHOLDER_PATH"),
			OpTimeout:        getEnvDuration("STORAGE_OP_TIMEOUT", 10*time.Second),
			AllowWipe:        getEnvBool("STORAGE_ALLOW_WIPE", false),
		},
		Mail: Mail{
			Host:     EnvString("MAIL_HOST", "smtp-mail.outlook.com"),
			Port:     EnvInt("MAIL_PORT", 587),
			Login:    os.Getenv("MAIL_LOGIN"),
			Password: os.Getenv("MAIL_PASSWORD"),
			Timeout:  getEnvDuration("MAIL_TIMEOUT", 15*time.Second),
		},
	}
}

// IsProduction reports whether destructive maintenance operations must stay off.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate checks the fields every command needs before touching storage.
func (s Storage) Validate() error {
	switch s.Driver {
	case "s3", "badger":
	default:
		return fmt.Errorf("unsupported storage driver: %q", s.Driver)
	}
	if s.Container == "" {
		return fmt.Errorf("storage container must be provided")
	}
	if strings.Contains(s.Container, "/") {
		return fmt.Errorf("storage container %q must not contain '/'", s.Container)
	}
	if s.OpTimeout <= 0 {
		return fmt.Errorf("storage op timeout must be positive")
	}
	return nil
}

// EnvString returns the variable named by key, or def when it is unset or empty.
func EnvString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// EnvInt parses key as an integer; unset, unparsable or zero values yield def.
func EnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		_, _ = fmt.Sscanf(v, "%d", &n)
		if n != 0 {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
