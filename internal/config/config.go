// Package config loads threeprimes settings from defaults, an optional YAML file and
// THREEPRIMES_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/threeprimes/pkg/domain"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "THREEPRIMES_"

// DefaultOutput is the file the find command writes to.
const DefaultOutput = "output_threeprime.txt"

var validate = validator.New()

// Config is the full application configuration.
type Config struct {
	Witnesses   int    `yaml:"witnesses" env:"WITNESSES" validate:"min=1,max=256"`
	Output      string `yaml:"output" env:"OUTPUT" validate:"required"`
	Concurrency int    `yaml:"concurrency" env:"CONCURRENCY" validate:"min=1"`

	Log    LogConfig    `yaml:"log" envPrefix:"LOG_"`
	HTTP   HTTPConfig   `yaml:"http" envPrefix:"HTTP_"`
	Search SearchConfig `yaml:"search" envPrefix:"SEARCH_"`
	Jobs   JobsConfig   `yaml:"jobs" envPrefix:"JOBS_"`
	Redis  RedisConfig  `yaml:"redis" envPrefix:"REDIS_"`
}

// LogConfig selects the slog level and handler format.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"FORMAT" validate:"oneof=text json"`
}

// HTTPConfig holds the listen address of the HTTP API.
type HTTPConfig struct {
	Addr string `yaml:"addr" env:"ADDR" validate:"required"`
}

// SearchConfig limits synchronous work done on behalf of a request.
type SearchConfig struct {
	// Timeout bounds /modexp, /primality and /triples. Zero disables the limit.
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT" validate:"min=0"`
}

// JobsConfig controls asynchronous triple searches.
// Store is "memory" or "redis"; TTL expires finished jobs in redis; Timeout
// bounds a single job. Zero durations disable the limit.
type JobsConfig struct {
	Store   string        `yaml:"store" env:"STORE" validate:"oneof=memory redis"`
	TTL     time.Duration `yaml:"ttl" env:"TTL" validate:"min=0"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT" validate:"min=0"`
}

// RedisConfig is used only when Jobs.Store is "redis".
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"ADDR" validate:"required_if=Enabled true"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB" validate:"min=0"`
	// Enabled mirrors Jobs.Store == "redis"; set by Validate.
	Enabled bool `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Witnesses:   domain.DefaultWitnesses,
		Output:      DefaultOutput,
		Concurrency: 4,
		Log:         LogConfig{Level: "info", Format: "text"},
		HTTP:        HTTPConfig{Addr: ":8080"},
		Search:      SearchConfig{Timeout: 30 * time.Second},
		Jobs:        JobsConfig{Store: "memory", TTL: time.Hour, Timeout: 10 * time.Minute},
		Redis:       RedisConfig{Addr: "localhost:6379"},
	}
}

// Load builds the configuration. path may be empty; a missing file is an error
// only when path is set explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	c.Redis.Enabled = c.Jobs.Store == "redis"
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config validation failed: %s (%s=%v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
