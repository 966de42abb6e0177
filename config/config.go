package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// DevJWTSecret is used when no secret is configured in development and test.
const DevJWTSecret = "recipeshare-dev-secret"

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost string
	ServerPort string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// Redis configuration; an empty URL disables rate limiting
	RedisURL      string
	RedisPassword string

	// JWT configuration
	JWTSecret string
	JWTTTL    time.Duration

	// Image storage; an empty bucket disables uploads
	S3BucketName string
	AWSRegion    string
	S3Endpoint   string

	CORSAllowedOrigins []string
	LogLevel           string

	PageSizeDefault int
	PageSizeMax     int
}

// LoadConfig builds a Config from environment variables. Sensitive values
// fall back to docker secret files under SECRETS_DIR.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	ttl, err := time.ParseDuration(GetEnvWithDefault("JWT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	pageDefault, err := strconv.Atoi(GetEnvWithDefault("PAGE_SIZE_DEFAULT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAGE_SIZE_DEFAULT: %w", err)
	}
	pageMax, err := strconv.Atoi(GetEnvWithDefault("PAGE_SIZE_MAX", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAGE_SIZE_MAX: %w", err)
	}

	cfg := &Config{
		Environment:        env,
		ServerHost:         GetEnvWithDefault("SERVER_HOST", "0.0.0.0"),
		ServerPort:         GetEnvWithDefault("SERVER_PORT", "8080"),
		DBDriver:           strings.ToLower(GetEnvWithDefault("DB_DRIVER", "postgres")),
		DBHost:             GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:             GetEnvWithDefault("DB_PORT", "5432"),
		DBUser:             GetEnvWithDefault("DB_USER", "postgres"),
		DBPassword:         secretOrEnv("DB_PASSWORD", "db_password"),
		DBName:             GetEnvWithDefault("DB_NAME", "recipeshare"),
		DBSSLMode:          GetEnvWithDefault("DB_SSL_MODE", "disable"),
		DBPath:             GetEnvWithDefault("DB_PATH", "recipeshare.db"),
		RedisURL:           secretOrEnv("REDIS_URL", "redis_url"),
		RedisPassword:      secretOrEnv("REDIS_PASSWORD", "redis_password"),
		JWTSecret:          secretOrEnv("JWT_SECRET", "jwt_secret"),
		JWTTTL:             ttl,
		S3BucketName:       os.Getenv("S3_BUCKET_NAME"),
		AWSRegion:          GetEnvWithDefault("AWS_REGION", "us-east-1"),
		S3Endpoint:         os.Getenv("S3_ENDPOINT"),
		CORSAllowedOrigins: splitList(GetEnvWithDefault("CORS_ALLOWED_ORIGINS", "http://localhost:8081,http://localhost:19006")),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		PageSizeDefault:    pageDefault,
		PageSizeMax:        pageMax,
	}

	if cfg.JWTSecret == "" && env.IsLocal() {
		cfg.JWTSecret = DevJWTSecret
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// String returns a representation of Config with secrets masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, Addr: %s, DBDriver: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: %s, Redis: %t, JWTSecret: %s, S3Bucket: %s}",
		c.Environment, c.Addr(), c.DBDriver, c.DBHost, c.DBName, c.DBUser, mask(c.DBPassword), c.RedisURL != "", mask(c.JWTSecret), c.S3BucketName)
}

// GetEnvWithDefault returns the environment value for key or defaultValue when unset
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.WithField("key", key).Debug("environment variable not set, using default")
		return defaultValue
	}
	return value
}

// secretOrEnv prefers the environment variable and falls back to a docker secret
func secretOrEnv(envKey, secretName string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return readSecret(secretName)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "[REDACTED]"
}
