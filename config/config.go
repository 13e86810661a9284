package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string
	ServerHost string
	// PublicBaseURL overrides the scheme and host used for absolute links
	PublicBaseURL string
	CORSOrigins   []string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration. An empty RedisURL disables rate limiting and token revocation.
	RedisURL string

	// JWT configuration
	JWTSecret string

	// ShortLinkAlphabet shuffles short link codes; empty uses the library default
	ShortLinkAlphabet string

	LogLevel     string
	SettingsFile string

	Storage StorageConfig

	// Settings carries the domain limits loaded from SettingsFile
	Settings Settings
}

// StorageConfig selects and configures the blob store for uploaded images
type StorageConfig struct {
	Backend string // "filesystem" or "s3"

	MediaRoot string
	MediaURL  string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{Environment: env}

	cfg.ServerPort = lookup("SERVER_PORT", "server_port", "8080")
	cfg.ServerHost = lookup("SERVER_HOST", "server_host", "0.0.0.0")
	cfg.PublicBaseURL = strings.TrimRight(lookup("PUBLIC_BASE_URL", "public_base_url", ""), "/")
	cfg.CORSOrigins = splitList(lookup("CORS_ALLOWED_ORIGINS", "", "http://localhost:3000"))

	cfg.DBHost = lookup("DB_HOST", "db_host", "localhost")
	cfg.DBPort = lookup("DB_PORT", "db_port", "5432")
	cfg.DBUser = lookup("DB_USER", "db_user", devDefault(env, "postgres"))
	cfg.DBPassword = lookup("DB_PASSWORD", "db_password", devDefault(env, "postgres"))
	cfg.DBName = lookup("DB_NAME", "db_name", "foodgram")
	cfg.DBSSLMode = lookup("DB_SSL_MODE", "db_ssl_mode", "disable")

	cfg.RedisURL = lookup("REDIS_URL", "redis_url", "")
	cfg.JWTSecret = lookup("JWT_SECRET", "jwt_secret", devDefault(env, "development-secret"))
	cfg.ShortLinkAlphabet = lookup("SHORT_LINK_ALPHABET", "", "")

	cfg.LogLevel = lookup("LOG_LEVEL", "", "info")
	cfg.SettingsFile = lookup("SETTINGS_FILE", "", "")

	cfg.Storage = StorageConfig{
		Backend:     lookup("STORAGE_BACKEND", "", "filesystem"),
		MediaRoot:   lookup("MEDIA_ROOT", "", "media"),
		MediaURL:    lookup("MEDIA_URL", "", "/media/"),
		S3Bucket:    lookup("S3_BUCKET_NAME", "", "foodgram-media"),
		S3Region:    lookup("AWS_REGION", "", "us-east-1"),
		S3Endpoint:  lookup("S3_ENDPOINT", "", ""),
		S3AccessKey: lookup("S3_ACCESS_KEY", "s3_access_key", ""),
		S3SecretKey: lookup("S3_SECRET_KEY", "s3_secret_key", ""),
		S3PublicURL: lookup("S3_PUBLIC_URL", "", ""),
	}

	settings, err := LoadSettings(cfg.SettingsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	cfg.Settings = settings

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN returns the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// DatabaseURL returns the postgres connection string in URL form, as golang-migrate expects it
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// lookup reads an environment variable, then a Docker secret, then falls back to def
func lookup(envKey, secretName, def string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if secretName != "" {
		if v := readSecret(secretName); v != "" {
			return v
		}
	}
	return def
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func devDefault(env Environment, value string) string {
	if env == Production {
		return ""
	}
	return value
}

// readSecret reads a secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	content, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(content))
}

