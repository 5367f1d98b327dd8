package config

import "fmt"

const (
	OnInvalidFail = "fail"
	OnInvalidSkip = "skip"
)

// ImportConfig holds importer configuration.
type ImportConfig struct {
	// BaseDir resolves relative source paths.
	BaseDir string
	// OnInvalid decides what happens to records without a usable id:
	// fail aborts the run, skip drops the record with a warning.
	OnInvalid string
}

// LoadImportConfigFromEnv loads importer configuration from environment variables.
func LoadImportConfigFromEnv() ImportConfig {
	return ImportConfig{
		BaseDir:   GetEnv("IMPORT_BASE_DIR", "."),
		OnInvalid: GetEnv("IMPORT_ON_INVALID", OnInvalidFail),
	}
}

// SkipInvalid reports whether invalid records are dropped instead of failing the run.
func (c ImportConfig) SkipInvalid() bool {
	return c.OnInvalid == OnInvalidSkip
}

// Validate validates importer configuration.
func (c ImportConfig) Validate() error {
	if c.OnInvalid != OnInvalidFail && c.OnInvalid != OnInvalidSkip {
		return fmt.Errorf("invalid IMPORT_ON_INVALID: %s (must be: fail, skip)", c.OnInvalid)
	}
	return nil
}
