package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that values required to run the service are set.
// Development gets permissive defaults; production requires the sensitive
// values to come from the environment or Docker secrets.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		errs = append(errs, fmt.Sprintf("unsupported DB_DRIVER %q", cfg.DBDriver))
	}
	if cfg.DBName == "" {
		errs = append(errs, "DB_NAME is required")
	}

	if IsProduction() {
		if cfg.DBPassword == "" {
			errs = append(errs, "DB_PASSWORD (or db_password secret) is required in production")
		}
		if cfg.JWTSecret == "" {
			errs = append(errs, "JWT_SECRET (or jwt_secret secret) is required in production")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
