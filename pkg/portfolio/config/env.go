package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// WithEnv applies environment variable overrides.
//
// Server:
//
//	PORTFOLIO_ROOT - Site project directory (default: ".")
//	PORTFOLIO_HOST - Listen address (default: "127.0.0.1")
//	PORTFOLIO_PORT - Listen port (default: "8787")
//	PORTFOLIO_ENVIRONMENT - development, production or testing
//	PORTFOLIO_SERVE_STATIC - Serve site files from the root (default: true)
//
// Layout:
//
//	PORTFOLIO_DATA_DIR, PORTFOLIO_IMAGES_DIR - Relative to the root
//
// Images:
//
//	PORTFOLIO_ASSET_STORAGE_URL - one of:
//	  - "file://" - The project root (default)
//	  - "file:///path/to/dir" - Another directory
//	  - "memory://" - In-memory, for trying the editor out
//	  - "s3://bucket?region=us-east-1&endpoint=http://localhost:9000&path_style=true"
//	PORTFOLIO_S3_* - Credentials and encryption for the S3 backend
//
// Publishing:
//
//	PORTFOLIO_GIT_REMOTE, PORTFOLIO_GIT_BRANCH, PORTFOLIO_GIT_BINARY, PORTFOLIO_GIT_DISABLED
//
// Variables that are not set leave the current value untouched.
func WithEnv() Option {
	return func(c *ServerConfig) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}
		return nil
	}
}

// WithFile reads a YAML, JSON or TOML configuration file. Environment
// variables are applied on top of the file's values.
func WithFile(path string) Option {
	return func(c *ServerConfig) error {
		if path == "" {
			return nil
		}
		if err := cleanenv.ReadConfig(path, c); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}
}

// Usage describes the supported environment variables
func Usage() (string, error) {
	cfg := defaults()
	return cleanenv.GetDescription(&cfg, nil)
}
