package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment variables that relocate servicelog's files.
const (
	HomeEnv   = "SERVICELOG_HOME"
	ConfigEnv = "SERVICELOG_CONFIG"
)

const (
	DefaultDirName = ".servicelog"
	ConfigFileName = "config.yaml"
)

// Lookup reads one environment variable. os.LookupEnv satisfies it.
type Lookup func(key string) (string, bool)

// Locations are the paths known before config.yaml is read. Everything else
// (database, log) is named by the config and resolved against Base.
type Locations struct {
	Base   string
	Config string
}

// Locate resolves the data directory and the config file. SERVICELOG_HOME
// replaces ~/.servicelog; SERVICELOG_CONFIG points at a config file outside
// it. Blank values count as unset.
func Locate(lookup Lookup) (Locations, error) {
	base, err := fromEnv(lookup, HomeEnv, func() (string, error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate home directory: %w", err)
		}
		return filepath.Join(home, DefaultDirName), nil
	})
	if err != nil {
		return Locations{}, err
	}

	config, err := fromEnv(lookup, ConfigEnv, func() (string, error) {
		return filepath.Join(base, ConfigFileName), nil
	})
	if err != nil {
		return Locations{}, err
	}
	return Locations{Base: base, Config: config}, nil
}

func fromEnv(lookup Lookup, key string, fallback func() (string, error)) (string, error) {
	if value, ok := lookup(key); ok {
		if value = strings.TrimSpace(value); value != "" {
			return expandHome(value)
		}
	}
	return fallback()
}

// expandHome rewrites "~" and "~/..." against the home directory. "~user"
// forms are left alone.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	return filepath.Join(home, path[1:]), nil
}
