// Package config loads tinytrack configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all tinytrack configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Time      TimeConfig      `yaml:"time"`
	Logging   LoggingConfig   `yaml:"logging"`
	Milestone MilestoneConfig `yaml:"milestone"`
}

// ServerConfig configures the webhook transport.
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// StoreConfig selects and configures the profile store backend.
type StoreConfig struct {
	Backend string `yaml:"backend" validate:"oneof=memory file sqlite postgres"`
	Path    string `yaml:"path" validate:"required_if=Backend file,required_if=Backend sqlite"`
	DSN     string `yaml:"dsn" validate:"required_if=Backend postgres"`
}

// TimeConfig pins the household timezone as a fixed UTC offset.
type TimeConfig struct {
	UTCOffsetHours int `yaml:"utc_offset_hours" validate:"gte=-12,lte=14"`
}

// LoggingConfig controls the category file logger.
type LoggingConfig struct {
	DebugMode bool   `yaml:"debug_mode"`
	DataDir   string `yaml:"data_dir"`
}

// MilestoneConfig seeds the encouragement trigger. Zero means seed from
// the calendar day, which keeps firing deterministic within a day.
type MilestoneConfig struct {
	Seed int64 `yaml:"seed"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Addr: ":8080"},
		Store:   StoreConfig{Backend: "file", Path: "data/profiles.json"},
		Time:    TimeConfig{UTCOffsetHours: 2},
		Logging: LoggingConfig{DataDir: "data"},
	}
}

// Load reads the YAML file at path, falling back to defaults when the
// file does not exist, then applies environment overrides and validates.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides lets deployment environments adjust file-based
// settings without editing the file. PORT matches the hosting platform's
// convention.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TINYTRACK_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("TINYTRACK_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("TINYTRACK_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Store.DSN = v
		if c.Store.Backend != "postgres" {
			c.Store.Backend = "postgres"
		}
	}
	if v := os.Getenv("TINYTRACK_UTC_OFFSET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Time.UTCOffsetHours = n
		}
	}
	if v := os.Getenv("TINYTRACK_DEBUG"); v != "" {
		c.Logging.DebugMode = v == "1" || v == "true"
	}
}
