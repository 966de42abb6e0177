package config

import (
	"fmt"
	"strconv"
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

// ValidationErrors collects every problem found in a configuration.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks the configuration against the requirements of its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		errs = append(errs, ValidationError{"SERVER_PORT", "must be numeric"})
	}

	switch cfg.DBDriver {
	case "postgres", "postgresql":
		if cfg.DBHost == "" {
			errs = append(errs, ValidationError{"DB_HOST", "required for postgres"})
		}
		if cfg.DBUser == "" {
			errs = append(errs, ValidationError{"DB_USER", "required for postgres"})
		}
		if cfg.DBName == "" {
			errs = append(errs, ValidationError{"DB_NAME", "required for postgres"})
		}
	case "sqlite":
		if cfg.DBPath == "" {
			errs = append(errs, ValidationError{"DB_PATH", "required for sqlite"})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q (supported: postgres, sqlite)", cfg.DBDriver)})
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{"JWT_SECRET", "required outside development and test"})
	}
	if cfg.Environment == Production && cfg.JWTSecret == DevJWTSecret {
		errs = append(errs, ValidationError{"JWT_SECRET", "development secret must not be used in production"})
	}
	if cfg.JWTTTL <= 0 {
		errs = append(errs, ValidationError{"JWT_TTL", "must be positive"})
	}

	if cfg.PageSizeDefault < 1 || cfg.PageSizeMax < 1 {
		errs = append(errs, ValidationError{"PAGE_SIZE_DEFAULT", "page sizes must be positive"})
	} else if cfg.PageSizeDefault > cfg.PageSizeMax {
		errs = append(errs, ValidationError{"PAGE_SIZE_DEFAULT", "must not exceed PAGE_SIZE_MAX"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
