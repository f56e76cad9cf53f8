package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks the configuration for the current environment.
// Development is permissive so the server can boot against local defaults;
// production requires the secrets to be set explicitly.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.JWTSecret == "" {
		if IsProduction() {
			errs = append(errs, "JWT_SECRET is required in production")
		} else {
			cfg.JWTSecret = "dev-insecure-secret"
		}
	}

	if IsProduction() {
		if cfg.DBPassword == "" {
			errs = append(errs, "DB_PASSWORD is required in production")
		}
		if cfg.DBSSLMode == "disable" {
			errs = append(errs, "DB_SSL_MODE must not be 'disable' in production")
		}
	}

	if cfg.ServerPort == "" {
		errs = append(errs, "SERVER_PORT must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
