package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

// Manager centralizes where servicelog's files live on disk.
type Manager struct {
	basePath   string
	configPath string
}

// NewManager roots a Manager at basePath with config.yaml inside it. An empty
// basePath defers to Locate and the environment.
func NewManager(basePath string) (*Manager, error) {
	loc := Locations{Base: basePath, Config: filepath.Join(basePath, ConfigFileName)}
	if basePath == "" {
		var err error
		if loc, err = Locate(os.LookupEnv); err != nil {
			return nil, err
		}
	}

	base, err := filepath.Abs(loc.Base)
	if err != nil {
		return nil, err
	}
	config, err := filepath.Abs(loc.Config)
	if err != nil {
		return nil, err
	}
	return &Manager{basePath: base, configPath: config}, nil
}

// BasePath returns the root directory.
func (m *Manager) BasePath() string {
	return m.basePath
}

// ConfigPath is where config.yaml is read from.
func (m *Manager) ConfigPath() string {
	return m.configPath
}

// Resolve joins name onto the base path unless it is already absolute.
func (m *Manager) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.basePath, name)
}

// EnsureBase guarantees the base directory exists.
func (m *Manager) EnsureBase() error {
	if m == nil {
		return errors.New("files.Manager is nil")
	}
	if err := os.MkdirAll(m.basePath, dirPermissions); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	return nil
}

// WriteAtomic replaces path with content via a synced temp file and rename,
// so readers never observe a partial write. Existing file modes are kept.
func WriteAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".servicelog-*")
	if err != nil {
		return err
	}
	defer os.Remove(temp.Name())

	if _, err := temp.Write(content); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}

	mode := os.FileMode(filePermissions)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.Chmod(temp.Name(), mode); err != nil {
		return err
	}

	return os.Rename(temp.Name(), path)
}
