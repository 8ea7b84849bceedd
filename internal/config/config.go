// Package config defines all configuration structures for the LexML contract
// analysis service.  No I/O or parsing logic lives here, only plain data
// types and validation.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds Redis connection parameters for the report cache.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Kafka producer parameters for analysis events.
type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers"`
	ProducerRetries int           `mapstructure:"producer_retries"`
	BatchTimeout    time.Duration `mapstructure:"batch_timeout"`
	Async           bool          `mapstructure:"async"`
	Enabled         bool          `mapstructure:"enabled"`
}

// MinIOConfig holds object-storage parameters for the contract archive.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Enabled   bool   `mapstructure:"enabled"`
}

// ClassifierConfig holds the clause-classifier backend parameters.
type ClassifierConfig struct {
	// Backend selects the serving transport: "grpc", "http", or "mock".
	Backend string `mapstructure:"backend"`

	// Endpoint is the model-server address (host:port for grpc, base URL
	// for http).
	Endpoint string `mapstructure:"endpoint"`

	// ModelID identifies the deployed classifier model.
	ModelID string `mapstructure:"model_id"`

	// MaxSequenceLength is the fixed token window the model accepts.
	MaxSequenceLength int `mapstructure:"max_sequence_length"`

	// Timeout bounds a single classification call.  The classifier is the
	// only externally-bounded step of an analysis.
	Timeout time.Duration `mapstructure:"timeout"`

	// Enabled turns the classifier off entirely; analyses then run
	// rule-based only.
	Enabled bool `mapstructure:"enabled"`
}

// AnalysisConfig holds tunables of the analysis pipeline itself.
type AnalysisConfig struct {
	// HistoryLimit is the default number of entries returned by the
	// history listing.
	HistoryLimit int `mapstructure:"history_limit"`

	// CacheTTL bounds how long a cached report stays valid.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// CatalogPath optionally overrides the built-in reference catalog with
	// a YAML file.  Empty means built-in.
	CatalogPath string `mapstructure:"catalog_path"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string   `mapstructure:"format"` // "json" | "console"
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// Config is the root configuration object assembled by the loader.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Log        LogConfig        `mapstructure:"log"`
}

// Validate checks cross-field consistency.  It assumes ApplyDefaults has
// already run, so zero values for defaulted fields never reach here.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range [1,65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q must be one of debug|release|test", c.Server.Mode)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database.host must not be empty")
	}
	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("database.max_conns %d smaller than min_conns %d",
			c.Database.MaxConns, c.Database.MinConns)
	}

	if c.Classifier.Enabled {
		switch c.Classifier.Backend {
		case "grpc", "http", "mock":
		default:
			return fmt.Errorf("classifier.backend %q must be one of grpc|http|mock", c.Classifier.Backend)
		}
		if c.Classifier.Backend != "mock" && c.Classifier.Endpoint == "" {
			return fmt.Errorf("classifier.endpoint required for backend %q", c.Classifier.Backend)
		}
		if c.Classifier.Timeout <= 0 {
			return fmt.Errorf("classifier.timeout must be positive")
		}
		if c.Classifier.MaxSequenceLength <= 0 {
			return fmt.Errorf("classifier.max_sequence_length must be positive")
		}
	}

	if c.Analysis.HistoryLimit <= 0 {
		return fmt.Errorf("analysis.history_limit must be positive")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required when kafka is enabled")
	}
	if c.MinIO.Enabled && c.MinIO.Endpoint == "" {
		return fmt.Errorf("minio.endpoint required when minio is enabled")
	}

	return nil
}
