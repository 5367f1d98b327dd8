// Package config loads the importer's settings from the environment, an optional
// .env file and command line overrides.
package config

import "fmt"

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Logger   LoggerConfig
	Import   ImportConfig
	Server   ServerConfig
}

// LoadFromEnv loads all configuration from environment variables.
func LoadFromEnv() Config {
	return Config{
		Database: LoadDatabaseConfigFromEnv(),
		Logger:   LoadLoggerConfigFromEnv(),
		Import:   LoadImportConfigFromEnv(),
		Server:   LoadServerConfigFromEnv(),
	}
}

// Validate validates all configuration.
func (c Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database config validation failed: %w", err)
	}
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger config validation failed: %w", err)
	}
	if err := c.Import.Validate(); err != nil {
		return fmt.Errorf("import config validation failed: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	return nil
}
