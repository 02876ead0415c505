package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port         string `yaml:"port" env:"SERVER_PORT"`
		Mode         string `yaml:"mode" env:"SERVER_MODE"`
		CORSOrigins  string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
		ReadTimeout  string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	// Auth describes how session tokens issued by the identity platform are verified.
	Auth struct {
		JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
		JWKSURL   string `yaml:"jwks_url" env:"AUTH_JWKS_URL"`
		Issuer    string `yaml:"issuer" env:"AUTH_ISSUER"`
		Audience  string `yaml:"audience" env:"AUTH_AUDIENCE"`
	} `yaml:"auth"`

	Storage struct {
		BasePath    string `yaml:"base_path" env:"STORAGE_BASE_PATH"`
		BaseURL     string `yaml:"base_url" env:"STORAGE_BASE_URL"`
		MaxUploadMB int    `yaml:"max_upload_mb" env:"STORAGE_MAX_UPLOAD_MB"`
	} `yaml:"storage"`

	Cache struct {
		ReferenceSize int    `yaml:"reference_size" env:"CACHE_REFERENCE_SIZE"`
		ReferenceTTL  string `yaml:"reference_ttl" env:"CACHE_REFERENCE_TTL"`
	} `yaml:"cache"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.CORSOrigins = "http://localhost:5173"
	config.Server.ReadTimeout = "15s"
	config.Server.WriteTimeout = "60s"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "notehub"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.Storage.BasePath = "uploads"
	config.Storage.BaseURL = "http://localhost:8080/storage"
	config.Storage.MaxUploadMB = 20

	config.Cache.ReferenceSize = 512
	config.Cache.ReferenceTTL = "5m"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Auth.JWTSecret == "" && config.Auth.JWKSURL == "" {
		return fmt.Errorf("either auth.jwt_secret or auth.jwks_url is required")
	}

	if config.Storage.BasePath == "" {
		return fmt.Errorf("storage base path is required")
	}

	if config.Storage.MaxUploadMB <= 0 {
		return fmt.Errorf("storage max upload size must be positive")
	}

	durations := map[string]string{
		"server.read_timeout":        config.Server.ReadTimeout,
		"server.write_timeout":       config.Server.WriteTimeout,
		"database.conn_max_lifetime": config.Database.ConnMaxLifetime,
		"cache.reference_ttl":        config.Cache.ReferenceTTL,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s duration %q: %w", name, value, err)
		}
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetMigrationURL returns the golang-migrate pgx/v5 URL for the same database
func (c *Config) GetMigrationURL() string {
	return "pgx5" + strings.TrimPrefix(c.GetPostgresConnectionString(), "postgres")
}

// CORSOrigins splits the comma separated origin list
func (c *Config) CORSOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.Server.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// MaxUploadBytes returns the upload size limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Storage.MaxUploadMB) << 20
}

// Duration parses a validated duration string, falling back to def.
func Duration(value string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return def
}
