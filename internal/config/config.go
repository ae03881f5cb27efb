// Package config loads the ingestion service configuration from a YAML file
// with .env / environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default service configuration values.
const (
	defaultServiceName    = "ingestd"
	defaultServiceVersion = "1.0.0"
	defaultServicePort    = 8090
	defaultLogLevel       = "info"
)

// Default database configuration values.
const (
	defaultDBHost          = "localhost"
	defaultDBPort          = 5432
	defaultDBUser          = "postgres"
	defaultDBName          = "careerraah"
	defaultDBSSLMode       = "disable"
	defaultDBMaxConns      = 25
	defaultDBMaxIdleConns  = 5
	defaultDBConnLifetimeH = 1
)

// Default ingestion run values.
const (
	defaultSchedule     = "@every 6h"
	defaultNoticeDelay  = 20 * time.Second
	defaultBreakerDelay = 1 * time.Second
	defaultFetchTimeout = 30 * time.Second
	defaultRunLockTTL   = 2 * time.Hour
)

// Default AI configuration values.
const (
	defaultAIModel         = "claude-sonnet-4-5"
	defaultAIFallbackModel = "claude-3-5-haiku-latest"
	defaultAIMaxTokens     = 4096
	defaultAITimeout       = 120 * time.Second
)

// Config holds the application configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Sources  []SourceConfig `yaml:"sources"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig holds service identity and runtime settings.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"INGESTD_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"    yaml:"debug"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host                  string        `env:"POSTGRES_HOST"     yaml:"host"`
	Port                  int           `env:"POSTGRES_PORT"     yaml:"port"`
	User                  string        `env:"POSTGRES_USER"     yaml:"user"`
	Password              string        `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database              string        `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode               string        `yaml:"sslmode"`
	MaxConnections        int           `yaml:"max_connections"`
	MaxIdleConns          int           `yaml:"max_idle_connections"`
	ConnectionMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// RedisConfig holds Redis connection settings for the run lock and run status.
type RedisConfig struct {
	Address  string `env:"REDIS_ADDRESS"  yaml:"address"`
	Password string `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int    `yaml:"db"`
}

// AIConfig holds settings for the model provider.
type AIConfig struct {
	APIKey         string        `env:"ANTHROPIC_API_KEY" yaml:"api_key"`
	Model          string        `yaml:"model"`
	FallbackModel  string        `yaml:"fallback_model"`
	MaxTokens      int           `yaml:"max_tokens"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// IngestConfig holds run scheduling and pacing settings.
type IngestConfig struct {
	// Schedule is a robfig/cron spec, e.g. "@every 6h".
	Schedule string `yaml:"schedule"`
	// RunOnStart triggers one run immediately at service startup.
	RunOnStart bool `yaml:"run_on_start"`
	// NoticeDelay is the pause between notices while AI calls are active.
	NoticeDelay time.Duration `yaml:"notice_delay"`
	// BreakerDelay is the pause between notices after the rate-limit
	// breaker has tripped.
	BreakerDelay time.Duration `yaml:"breaker_delay"`
	// FetchTimeout bounds a single content fetch.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	// RunLockTTL is the lease duration of the redis run lock.
	RunLockTTL time.Duration `yaml:"run_lock_ttl"`
	// RejectInvalid drops notices whose extracted rules fail validation
	// instead of persisting them with a warning.
	RejectInvalid bool `yaml:"reject_invalid"`
}

// SourceConfig describes one listing-page source for the generic collector.
type SourceConfig struct {
	Name       string `yaml:"name"`
	URL        string `yaml:"url"`
	Department string `yaml:"department"`
	// RowSelector matches one announcement row on the listing page.
	RowSelector string `yaml:"row_selector"`
	// LinkSelector matches the anchor inside a row. Defaults to "a".
	LinkSelector string `yaml:"link_selector"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" yaml:"level"`
}

// ValidationError reports a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads the YAML config at path, applies defaults, then environment
// overrides. A .env file in the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()
	cfg.applyEnvOverrides()

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// GetConfigPath returns the config path from CONFIG_PATH or the default.
func GetConfigPath(defaultPath string) string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return defaultPath
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return &ValidationError{Field: "service.port", Message: "must be between 1 and 65535"}
	}

	if c.Database.Host == "" {
		return &ValidationError{Field: "database.host", Message: "is required"}
	}

	if c.Database.Database == "" {
		return &ValidationError{Field: "database.database", Message: "is required"}
	}

	for i, src := range c.Sources {
		if src.Name == "" {
			return &ValidationError{Field: fmt.Sprintf("sources[%d].name", i), Message: "is required"}
		}
		if src.URL == "" {
			return &ValidationError{Field: fmt.Sprintf("sources[%d].url", i), Message: "is required"}
		}
	}

	return nil
}

func (c *Config) setDefaults() {
	setServiceDefaults(&c.Service)
	setDatabaseDefaults(&c.Database)
	setRedisDefaults(&c.Redis)
	setAIDefaults(&c.AI)
	setIngestDefaults(&c.Ingest)
	setSourceDefaults(c.Sources)

	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}

	if s.Version == "" {
		s.Version = defaultServiceVersion
	}

	if s.Port == 0 {
		s.Port = defaultServicePort
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Host == "" {
		d.Host = defaultDBHost
	}

	if d.Port == 0 {
		d.Port = defaultDBPort
	}

	if d.User == "" {
		d.User = defaultDBUser
	}

	if d.Database == "" {
		d.Database = defaultDBName
	}

	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}

	if d.MaxConnections == 0 {
		d.MaxConnections = defaultDBMaxConns
	}

	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultDBMaxIdleConns
	}

	if d.ConnectionMaxLifetime == 0 {
		d.ConnectionMaxLifetime = defaultDBConnLifetimeH * time.Hour
	}
}

func setRedisDefaults(r *RedisConfig) {
	if r.Address == "" {
		r.Address = "localhost:6379"
	}
}

func setAIDefaults(a *AIConfig) {
	if a.Model == "" {
		a.Model = defaultAIModel
	}

	if a.FallbackModel == "" {
		a.FallbackModel = defaultAIFallbackModel
	}

	if a.MaxTokens == 0 {
		a.MaxTokens = defaultAIMaxTokens
	}

	if a.RequestTimeout == 0 {
		a.RequestTimeout = defaultAITimeout
	}
}

func setIngestDefaults(i *IngestConfig) {
	if i.Schedule == "" {
		i.Schedule = defaultSchedule
	}

	if i.NoticeDelay == 0 {
		i.NoticeDelay = defaultNoticeDelay
	}

	if i.BreakerDelay == 0 {
		i.BreakerDelay = defaultBreakerDelay
	}

	if i.FetchTimeout == 0 {
		i.FetchTimeout = defaultFetchTimeout
	}

	if i.RunLockTTL == 0 {
		i.RunLockTTL = defaultRunLockTTL
	}
}

func setSourceDefaults(sources []SourceConfig) {
	for i := range sources {
		if sources[i].LinkSelector == "" {
			sources[i].LinkSelector = "a"
		}
	}
}

// applyEnvOverrides applies environment variables for the fields that carry
// an env tag. Env always wins over file values and defaults.
func (c *Config) applyEnvOverrides() {
	overrideString(&c.Database.Host, "POSTGRES_HOST")
	overrideInt(&c.Database.Port, "POSTGRES_PORT")
	overrideString(&c.Database.User, "POSTGRES_USER")
	overrideString(&c.Database.Password, "POSTGRES_PASSWORD")
	overrideString(&c.Database.Database, "POSTGRES_DB")
	overrideString(&c.Redis.Address, "REDIS_ADDRESS")
	overrideString(&c.Redis.Password, "REDIS_PASSWORD")
	overrideString(&c.AI.APIKey, "ANTHROPIC_API_KEY")
	overrideString(&c.Logging.Level, "LOG_LEVEL")
	overrideInt(&c.Service.Port, "INGESTD_PORT")
	overrideBool(&c.Service.Debug, "APP_DEBUG")
}

func overrideString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func overrideInt(dst *int, key string) {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func overrideBool(dst *bool, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val == "true" || val == "1" || val == "yes"
	}
}
