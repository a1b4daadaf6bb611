// Package config loads service configuration from an optional YAML
// file plus CRICKET_-prefixed environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"cricket-score-service/internal/scoring"
)

// Config holds runtime configuration for the service.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// ServerConfig contains HTTP server parameters.
type ServerConfig struct {
	// Address is the listen address, e.g. ":8080".
	Address string `mapstructure:"address"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// Format is text or json.
	Format string `mapstructure:"format"`
}

// ScoringConfig selects the derived-metric strategy.
type ScoringConfig struct {
	// Strategy is "standard" or "dls"; chosen once per service instance.
	Strategy string `mapstructure:"strategy"`
}

// MetricsConfig controls the telemetry exporters.
type MetricsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Port         string `mapstructure:"port"`
	OtlpEndpoint string `mapstructure:"otlp_endpoint"`
	OtlpInsecure bool   `mapstructure:"otlp_insecure"`
}

// RedisConfig wires the optional Redis event publisher.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PostgresConfig wires the optional Postgres event mirror.
type PostgresConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// Load reads configuration from path (optional) and the environment.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("server.address", defaultAddress)
	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.format", defaultLogFormat)
	v.SetDefault("scoring.strategy", scoring.NameStandard)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", defaultMetricsPort)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", defaultRedisAddr)
	v.SetDefault("postgres.enabled", false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.Server.Address == "" {
		return errors.New("server.address must be set")
	}
	if _, err := scoring.ForName(c.Scoring.Strategy); err != nil {
		return fmt.Errorf("scoring.strategy: %w", err)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return errors.New("redis.addr must be set when redis is enabled")
	}
	if c.Postgres.Enabled && c.Postgres.DSN == "" {
		return errors.New("postgres.dsn must be set when postgres is enabled")
	}
	return nil
}
