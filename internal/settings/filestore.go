package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ngmaloney/signage-terminal/internal/models"
	"gopkg.in/yaml.v3"
)

// FileStore keeps settings in a hand-editable YAML file
type FileStore struct {
	path string
}

// NewFileStore creates a store for the YAML file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file location
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the file. A missing version field is treated as current.
func (f *FileStore) Load(_ context.Context) (models.Settings, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.Settings{}, ErrNotFound
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("reading settings file: %w", err)
	}

	var s models.Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return models.Settings{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	switch s.Version {
	case 0:
		s.Version = models.SettingsVersion
	case models.SettingsVersion:
	default:
		return models.Settings{}, fmt.Errorf("%w: version %d, want %d", ErrCorrupt, s.Version, models.SettingsVersion)
	}

	return s, nil
}

// Save writes the file atomically through a temp file in the same directory
func (f *FileStore) Save(_ context.Context, s models.Settings) error {
	s.Version = models.SettingsVersion
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing settings file: %w", err)
	}
	return nil
}
