package config

import (
	"fmt"
	"time"

	"github.com/vistatrade/firesync/internal/database"
	"github.com/vistatrade/firesync/pkg/config"
	"github.com/vistatrade/firesync/pkg/connectors/firestore"
	"github.com/vistatrade/firesync/pkg/sync"
	"github.com/vistatrade/firesync/pkg/tracing"
)

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Address returns the listen address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the top-level application configuration
type Config struct {
	Server    ServerConfig         `yaml:"server"`
	Database  database.Config      `yaml:"database"`
	Firestore firestore.Config     `yaml:"firestore"`
	Scheduler sync.SchedulerConfig `yaml:"scheduler"`
	Tracing   tracing.Config       `yaml:"tracing"`
	Logging   LoggingConfig        `yaml:"logging"`
}

// Default returns the default application configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database:  *database.DefaultConfig(),
		Firestore: *firestore.DefaultConfig(),
		Scheduler: *sync.DefaultSchedulerConfig(),
		Tracing:   *tracing.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from the optional YAML file at path, then
// applies FIRESYNC_* environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := config.NewLoader("FIRESYNC").Load(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Firestore.MaxAttempts < 1 {
		return fmt.Errorf("firestore max_attempts must be at least 1")
	}
	if c.Firestore.RequestInterval < 0 {
		return fmt.Errorf("firestore request_interval must not be negative")
	}
	return nil
}
