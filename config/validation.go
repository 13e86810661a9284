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

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "is required"}.Error())
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{"JWT_SECRET", "jwt_secret secret is required"}.Error())
	}
	if cfg.Environment == Production {
		if cfg.DBUser == "" {
			errs = append(errs, ValidationError{"DB_USER", "db_user secret is required"}.Error())
		}
		if cfg.DBPassword == "" {
			errs = append(errs, ValidationError{"DB_PASSWORD", "db_password secret is required"}.Error())
		}
	}

	switch cfg.Storage.Backend {
	case "filesystem":
		if cfg.Storage.MediaRoot == "" {
			errs = append(errs, ValidationError{"MEDIA_ROOT", "is required for the filesystem backend"}.Error())
		}
	case "s3":
		if cfg.Storage.S3Bucket == "" {
			errs = append(errs, ValidationError{"S3_BUCKET_NAME", "is required for the s3 backend"}.Error())
		}
	default:
		errs = append(errs, ValidationError{"STORAGE_BACKEND", fmt.Sprintf("unknown backend %q", cfg.Storage.Backend)}.Error())
	}

	if err := cfg.Settings.Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
