package stress

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPermits  = 4
	defaultReaders  = 8
	defaultWriters  = 2
	defaultDuration = 5 * time.Second
	defaultHoldTime = 100 * time.Microsecond
	defaultLogLevel = "info"

	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAgeDays = 7
)

type (
	// Config describes one contention scenario for the stress runner.
	Config struct {
		Permits  int           `yaml:"permits"`
		Readers  int           `yaml:"readers"`
		Writers  int           `yaml:"writers"`
		Duration time.Duration `yaml:"duration"`
		HoldTime time.Duration `yaml:"hold_time"`
		Logging  LoggingConfig `yaml:"logging"`
	}

	// LoggingConfig controls the runner's log output. An empty File keeps
	// logs on stderr only; a path adds a size-rotated file sink.
	LoggingConfig struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	}
)

// DefaultConfig returns a scenario that saturates a small semaphore: more
// readers than permits, a couple of writers, and a short hold time.
func DefaultConfig() Config {
	return Config{
		Permits:  defaultPermits,
		Readers:  defaultReaders,
		Writers:  defaultWriters,
		Duration: defaultDuration,
		HoldTime: defaultHoldTime,
		Logging: LoggingConfig{
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}

// LoadConfig reads a scenario from a YAML file, filling unset fields from
// DefaultConfig and validating the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects scenarios the runner cannot execute.
func (c Config) Validate() error {
	if c.Permits < 1 {
		return fmt.Errorf("permits must be at least 1, got %d", c.Permits)
	}
	if c.Readers < 0 || c.Writers < 0 {
		return fmt.Errorf("worker counts must not be negative (readers=%d writers=%d)", c.Readers, c.Writers)
	}
	if c.Readers+c.Writers == 0 {
		return fmt.Errorf("scenario needs at least one worker")
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %s", c.Duration)
	}
	if c.HoldTime < 0 {
		return fmt.Errorf("hold_time must not be negative, got %s", c.HoldTime)
	}
	return nil
}
