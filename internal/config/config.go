package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	ListenAddr     string `yaml:"listen_addr"`
	DatabaseURL    string `yaml:"database_url"`
	RolesFile      string `yaml:"roles_file"`
	ControllerURL  string `yaml:"controller_url"`
	RunInterval    string `yaml:"run_interval"`
	SnapshotMaxAge string `yaml:"snapshot_max_age"`
}

// Load reads config from yaml and env. An empty database url selects the
// in-memory stores; an empty controller url selects the in-memory actuator.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:     getenvDefault("GROWMIND_ADDR", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RolesFile:      os.Getenv("GROWMIND_ROLES_FILE"),
		ControllerURL:  os.Getenv("CONTROLLER_URL"),
		RunInterval:    os.Getenv("GROWMIND_RUN_INTERVAL"),
		SnapshotMaxAge: os.Getenv("GROWMIND_SNAPSHOT_MAX_AGE"),
	}

	if path := os.Getenv("GROWMIND_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.ListenAddr == "" {
		return cfg, errors.New("config: listen addr required")
	}
	if _, err := cfg.ParsedRunInterval(); err != nil {
		return cfg, err
	}
	if _, err := cfg.ParsedSnapshotMaxAge(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParsedRunInterval returns the scheduler interval; zero disables it.
func (c Config) ParsedRunInterval() (time.Duration, error) {
	return parseDuration("config: run interval", c.RunInterval)
}

// ParsedSnapshotMaxAge returns the snapshot staleness bound; zero means
// unbounded.
func (c Config) ParsedSnapshotMaxAge() (time.Duration, error) {
	return parseDuration("config: snapshot max age", c.SnapshotMaxAge)
}

func parseDuration(label, raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.New(label + " must be a duration like 30s or 5m")
	}
	if parsed < 0 {
		return 0, errors.New(label + " must not be negative")
	}
	return parsed, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
