package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/faizmokh/servicelog/internal/maintenance"
)

// LogLevelEnv overrides log_level from the config file.
const LogLevelEnv = "SERVICELOG_LOG_LEVEL"

// Config is the optional config.yaml in the data directory.
type Config struct {
	LogLevel        string   `yaml:"log_level"`
	LogFile         string   `yaml:"log_file"`
	Database        string   `yaml:"database"`
	ConfirmComplete bool     `yaml:"confirm_complete"`
	ServiceTypes    []string `yaml:"service_types"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	types := make([]string, len(maintenance.DefaultServiceTypes))
	copy(types, maintenance.DefaultServiceTypes)
	return Config{
		LogLevel:        "info",
		LogFile:         "servicelog.log",
		Database:        "servicelog.db",
		ConfirmComplete: true,
		ServiceTypes:    types,
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if level := strings.TrimSpace(os.Getenv(LogLevelEnv)); level != "" {
		cfg.LogLevel = level
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return errors.New("database must not be empty")
	}
	if strings.TrimSpace(c.LogFile) == "" {
		return errors.New("log_file must not be empty")
	}

	types := make([]string, 0, len(c.ServiceTypes))
	for _, t := range c.ServiceTypes {
		t = strings.TrimSpace(t)
		if t == "" || t == maintenance.CustomType {
			continue
		}
		types = append(types, t)
	}
	c.ServiceTypes = types
	return nil
}
