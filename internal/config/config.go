package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported database drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT" default:"8080"`
		Mode string `yaml:"mode" env:"SERVER_MODE" default:"development"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER" default:"memory"`
		Host            string `yaml:"host" env:"DB_HOST" default:"localhost"`
		Port            string `yaml:"port" env:"DB_PORT" default:"5432"`
		User            string `yaml:"user" env:"DB_USER" default:"postgres"`
		Password        string `yaml:"password" env:"DB_PASSWORD" default:"postgres"`
		DBName          string `yaml:"dbname" env:"DB_NAME" default:"schoolrecords"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE" default:"disable"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" default:"5"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" default:"20"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" default:"1h"`
	} `yaml:"database"`

	Storage struct {
		AvatarsDir string `yaml:"avatars_dir" env:"STORAGE_AVATARS_DIR" default:"uploads/avatars"`
	} `yaml:"storage"`

	// Redis is optional; an empty Addr keeps write locks in process.
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		LockTTL  string `yaml:"lock_ttl" env:"REDIS_LOCK_TTL" default:"10s"`
	} `yaml:"redis"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL" default:"info"`
		Format string `yaml:"format" env:"LOG_FORMAT" default:"json"`
	} `yaml:"logging"`

	Seed struct {
		Enabled bool `yaml:"enabled" env:"SEED_ENABLED"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a YAML file, a .env file and environment
// variables, in that order of increasing precedence. Both files are optional.
func LoadConfig(configPath, envPath string) (*Config, error) {
	config := &Config{}
	if err := applyDefaults(config); err != nil {
		return nil, err
	}

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Parse YAML into Config structure
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Variables already set in the environment win over the .env file
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envPath, err)
		}
	}

	// Override with environment variables
	if err := applyEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	// Validate config
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch strings.ToLower(config.Database.Driver) {
	case DriverMemory:
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if config.Database.DBName == "" {
			return fmt.Errorf("database name is required")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid database connection max lifetime: %w", err)
		}
	default:
		return fmt.Errorf("unsupported database driver %q (want %s or %s)", config.Database.Driver, DriverMemory, DriverPostgres)
	}

	if strings.TrimSpace(config.Storage.AvatarsDir) == "" {
		return fmt.Errorf("storage avatars directory is required")
	}

	if config.Redis.Addr != "" {
		if _, err := time.ParseDuration(config.Redis.LockTTL); err != nil {
			return fmt.Errorf("invalid redis lock ttl: %w", err)
		}
	}

	return nil
}

// UsesPostgres reports whether the PostgreSQL store is configured
func (c *Config) UsesPostgres() bool {
	return strings.EqualFold(c.Database.Driver, DriverPostgres)
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

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
