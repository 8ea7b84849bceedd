package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all service settings.
const envPrefix = "LEXML"

// newViper builds a pre-configured Viper instance: YAML file type, LEXML_ env
// prefix, automatic env binding, and a key replacer mapping "." to "_" so
// that nested keys like "database.host" resolve to "LEXML_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindKeys(v)
	return v
}

// knownKeys lists every configuration key so that environment-only loading
// works: viper's Unmarshal ignores AutomaticEnv for keys it has never seen,
// so each key is bound explicitly.
var knownKeys = []string{
	"server.port", "server.mode", "server.read_timeout", "server.write_timeout",
	"server.max_body_size", "server.shutdown_timeout", "server.cors_origins",
	"database.host", "database.port", "database.user", "database.password",
	"database.db_name", "database.ssl_mode", "database.max_conns",
	"database.min_conns", "database.conn_max_lifetime",
	"database.conn_max_idle_time", "database.migration_path",
	"redis.addr", "redis.password", "redis.db", "redis.pool_size",
	"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout",
	"redis.default_ttl", "redis.key_prefix",
	"kafka.brokers", "kafka.producer_retries", "kafka.batch_timeout",
	"kafka.async", "kafka.enabled",
	"minio.endpoint", "minio.access_key", "minio.secret_key", "minio.bucket",
	"minio.use_ssl", "minio.enabled",
	"classifier.backend", "classifier.endpoint", "classifier.model_id",
	"classifier.max_sequence_length", "classifier.timeout", "classifier.enabled",
	"analysis.history_limit", "analysis.cache_ttl", "analysis.catalog_path",
	"log.level", "log.format", "log.output_paths", "log.error_output_paths",
}

func bindKeys(v *viper.Viper) {
	for _, key := range knownKeys {
		// BindEnv with a single argument derives the variable name from the
		// prefix and replacer; it only errors on an empty key.
		_ = v.BindEnv(key)
	}
}

// Load reads the YAML file at configPath, merges LEXML_* environment variable
// overrides, applies defaults for unset fields, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from LEXML_* environment variables
// with no config file.  Preferred for containerised deployments.
//
// Naming convention: LEXML_<SECTION>_<FIELD>, e.g. LEXML_DATABASE_HOST,
// LEXML_CLASSIFIER_ENDPOINT.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed Config
// whenever the file changes on disk.  Intended for hot-reloading settings
// that are safe to swap at runtime, such as log level; callers decide which
// subset to apply.
//
// Watch is non-blocking.  A changed file that fails to parse or validate is
// skipped so the application never enters a broken state.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read errors are ignored; callers should Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad wraps Load and panics on error.  For use in main() only, where a
// config failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
