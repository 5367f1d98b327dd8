package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	// Driver selects the backend: postgres or sqlite.
	Driver string
	// URL is a full PostgreSQL connection URL. When set it takes precedence
	// over the individual connection fields.
	URL      string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string
	// ConnectAttempts bounds how many times opening the connection is tried.
	ConnectAttempts int
	// ConnectTimeout bounds the whole connect phase, retries included.
	ConnectTimeout time.Duration
}

// LoadDatabaseConfigFromEnv loads database configuration from environment variables.
func LoadDatabaseConfigFromEnv() DatabaseConfig {
	return DatabaseConfig{
		Driver:          GetEnv("DB_DRIVER", DriverPostgres),
		URL:             GetEnv("DATABASE_URL", ""),
		Host:            GetEnv("DB_HOST", "localhost"),
		Port:            GetEnvInt("DB_PORT", 5432),
		Name:            GetEnv("DB_NAME", "meeting_scheduler"),
		User:            GetEnv("DB_USER", "scheduler"),
		Password:        GetEnv("DB_PASSWORD", "scheduler"),
		SSLMode:         GetEnv("DB_SSLMODE", "disable"),
		SQLitePath:      GetEnv("SQLITE_PATH", "users.db"),
		ConnectAttempts: GetEnvInt("DB_CONNECT_ATTEMPTS", 3),
		ConnectTimeout:  GetEnvDuration("DB_CONNECT_TIMEOUT", 30*time.Second),
	}
}

// DSN returns the PostgreSQL connection string, or the sqlite file path.
func (c DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return c.SQLitePath
	}
	if c.URL != "" {
		return c.URL
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, fmt.Sprint(c.Port)),
		Path:   "/" + c.Name,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// RedactedDSN is DSN with the password masked, safe for logs.
func (c DatabaseConfig) RedactedDSN() string {
	dsn := c.DSN()
	if c.Driver == DriverSQLite {
		return dsn
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "<unparseable dsn>"
	}
	return u.Redacted()
}

// SanitizeError removes the password from error messages.
func (c DatabaseConfig) SanitizeError(err error) error {
	if err == nil {
		return nil
	}
	if c.Password == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), c.Password, "***")
	if msg == err.Error() {
		return err
	}
	return fmt.Errorf("%s", msg)
}

// Validate validates database configuration.
func (c DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverPostgres:
		if c.URL == "" {
			if c.Host == "" {
				return fmt.Errorf("DB_HOST must not be empty")
			}
			if c.Port <= 0 || c.Port > 65535 {
				return fmt.Errorf("invalid DB_PORT: %d", c.Port)
			}
			if c.Name == "" {
				return fmt.Errorf("DB_NAME must not be empty")
			}
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH must not be empty")
		}
	default:
		return fmt.Errorf("invalid DB_DRIVER: %s (must be: postgres, sqlite)", c.Driver)
	}

	if c.ConnectAttempts <= 0 {
		return fmt.Errorf("DB_CONNECT_ATTEMPTS must be greater than 0")
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("DB_CONNECT_TIMEOUT must be greater than 0")
	}
	return nil
}
